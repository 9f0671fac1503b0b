package entity

import (
	"strings"
	"time"
)

const MemberRole = "member"

// User is a registered account officer, keyed by WhatsApp JID.
type User struct {
	UserID         string    `json:"user_id" bson:"_id"`
	AccountOfficer string    `json:"account_officer" bson:"account_officer"`
	Role           string    `json:"role" bson:"role"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

func NewUser(jid, accountOfficer string) *User {
	return &User{
		UserID:         jid,
		AccountOfficer: strings.ToUpper(strings.TrimSpace(accountOfficer)),
		Role:           MemberRole,
		CreatedAt:      time.Now(),
	}
}
