package visit

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	amountPattern = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)*)\s*(ribu|rb|juta|jt|million|m|k)?\b`)
	datePattern   = regexp.MustCompile(`\b(\d{4}-\d{1,2}-\d{1,2}|\d{1,2}[/-]\d{1,2}[/-]\d{4})\b`)
	dateLayouts   = []string{"2006-1-2", "2/1/2006", "2-1-2006"}
)

// ParseAmount finds the first amount in text, such as "3.000", "500rb" or "5,7jt".
// With a unit the last separator is decimal unless three digits follow it.
// Without a unit every separator is a thousands separator.
func ParseAmount(text string) (int64, bool) {
	for _, match := range amountPattern.FindAllStringSubmatch(text, -1) {
		if n, ok := amountValue(match[1], strings.ToLower(match[2])); ok {
			return n, true
		}
	}
	return 0, false
}

func amountValue(number, unit string) (int64, bool) {
	var multiplier int64 = 1
	switch unit {
	case "rb", "ribu", "k":
		multiplier = 1_000
	case "jt", "juta", "million", "m":
		multiplier = 1_000_000
	}

	whole, frac := number, ""
	if unit != "" {
		if i := strings.LastIndexAny(number, ".,"); i >= 0 && len(number)-i-1 != 3 {
			whole, frac = number[:i], number[i+1:]
		}
	}
	whole = strings.NewReplacer(".", "", ",", "").Replace(whole)

	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || n > (1<<62)/multiplier {
		return 0, false
	}
	n *= multiplier

	if frac != "" {
		if len(frac) > 6 {
			frac = frac[:6]
		}
		f, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, false
		}
		scale := int64(1)
		for range frac {
			scale *= 10
		}
		n += f * multiplier / scale
	}
	return n, true
}

// FormatRupiah renders an amount the Indonesian way: Rp1.500.000.
func FormatRupiah(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var sb strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte('.')
		}
		sb.WriteRune(d)
	}
	return fmt.Sprintf("%sRp%s", sign, sb.String())
}

// ParseDate accepts YYYY-MM-DD, DD/MM/YYYY and DD-MM-YYYY and returns midnight in loc.
func ParseDate(text string, loc *time.Location) (time.Time, error) {
	text = strings.TrimSpace(text)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, text, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", text)
}

// FindDate returns the first valid date in free text and the token it was read from.
func FindDate(text string, loc *time.Location) (time.Time, string, bool) {
	for _, token := range datePattern.FindAllString(text, -1) {
		if t, err := ParseDate(token, loc); err == nil {
			return t, token, true
		}
	}
	return time.Time{}, "", false
}

// startOfDay truncates t to midnight in loc.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func removeFirst(text, token string) string {
	return strings.Replace(text, token, " ", 1)
}
