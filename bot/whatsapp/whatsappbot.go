package whatsapp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"VisitBot/bot/chat"
	"VisitBot/internal/lib/signature"
	"VisitBot/internal/lib/sl"
)

const (
	eventAck        = "message.ack"
	sendMessagePath = "/send/message"
	maxAttempts     = 3
)

// MessageHandler receives every normalized inbound message.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg chat.InboundMessage)
}

// WhatsAppBot talks to a self-hosted WhatsApp REST gateway: it accepts the
// gateway's webhook and sends text messages back through its API.
type WhatsAppBot struct {
	log            *slog.Logger
	client         *http.Client
	baseURL        string
	authorization  string
	deviceID       string
	webhookSecret  string
	retryDelay     time.Duration
	handlerTimeout time.Duration
	handler        MessageHandler
	validate       *validator.Validate
	wg             sync.WaitGroup
	stopping       chan struct{}
	stopOnce       sync.Once
}

// WebhookPayload is the envelope posted by the gateway.
type WebhookPayload struct {
	DeviceID string      `json:"device_id"`
	Event    string      `json:"event" validate:"required"`
	Payload  WebhookData `json:"payload"`
}

type WebhookData struct {
	ID       string        `json:"id" validate:"required"`
	ChatID   string        `json:"chat_id"`
	From     string        `json:"from" validate:"required"`
	FromName string        `json:"from_name"`
	Body     string        `json:"body"`
	Image    *ImagePayload `json:"image,omitempty"`
}

type ImagePayload struct {
	MediaPath string `json:"media_path"`
	MimeType  string `json:"mime_type"`
	Caption   string `json:"caption"`
}

// SendMessageRequest is the body of POST /send/message.
type SendMessageRequest struct {
	Phone          string `json:"phone"`
	Message        string `json:"message"`
	ReplyMessageID string `json:"reply_message_id,omitempty"`
}

func NewWhatsAppBot(baseURL, token, deviceID, webhookSecret string, log *slog.Logger) *WhatsAppBot {
	return &WhatsAppBot{
		log:            log.With(sl.Module("whatsappbot")),
		client:         &http.Client{Timeout: 15 * time.Second},
		baseURL:        strings.TrimRight(baseURL, "/"),
		authorization:  "Basic " + base64.StdEncoding.EncodeToString([]byte(token)),
		deviceID:       deviceID,
		webhookSecret:  webhookSecret,
		retryDelay:     2 * time.Second,
		handlerTimeout: 2 * time.Minute,
		validate:       validator.New(),
		stopping:       make(chan struct{}),
	}
}

func (b *WhatsAppBot) SetMessageHandler(h MessageHandler) {
	b.handler = h
}

// SetRetryDelay changes the base delay between send attempts.
func (b *WhatsAppBot) SetRetryDelay(d time.Duration) {
	b.retryDelay = d
}

// Wait cuts short pending send retries and blocks until every message taken
// from the webhook has been handled.
func (b *WhatsAppBot) Wait() {
	b.stopOnce.Do(func() { close(b.stopping) })
	b.wg.Wait()
}

// HandleWebhook acknowledges the delivery and handles the message in the background.
func (b *WhatsAppBot) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		b.log.Error("failed to read request body", sl.Err(err))
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if b.webhookSecret != "" {
		sig := r.Header.Get("X-Hub-Signature-256")
		if !b.verifySignature(body, sig) {
			b.log.Warn("invalid webhook signature")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
	}

	var payload WebhookPayload
	if err = json.Unmarshal(body, &payload); err != nil {
		b.log.Error("failed to parse webhook payload", sl.Err(err))
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if payload.Event == eventAck {
		w.WriteHeader(http.StatusOK)
		return
	}

	if err = b.validate.Struct(payload); err != nil {
		b.log.Debug("webhook payload skipped", slog.String("event", payload.Event), sl.Err(err))
		w.WriteHeader(http.StatusOK)
		return
	}

	w.WriteHeader(http.StatusOK)

	if b.handler == nil {
		return
	}
	msg := payload.Message()
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), b.handlerTimeout)
		defer cancel()
		b.handler.HandleMessage(ctx, msg)
	}()
}

// Message normalizes the webhook payload.
func (p WebhookPayload) Message() chat.InboundMessage {
	msg := chat.InboundMessage{
		ID:       p.Payload.ID,
		From:     p.Payload.From,
		ChatID:   p.Payload.ChatID,
		FromName: p.Payload.FromName,
		Body:     p.Payload.Body,
	}
	if p.Payload.Image != nil {
		msg.Caption = p.Payload.Image.Caption
		msg.ImagePath = p.Payload.Image.MediaPath
	}
	return msg
}

// SendMessage sends a text message to the specified recipient
func (b *WhatsAppBot) SendMessage(ctx context.Context, recipient, text string) error {
	return b.send(ctx, SendMessageRequest{Phone: recipient, Message: text})
}

// SendReply sends text quoting the message replyToID.
func (b *WhatsAppBot) SendReply(ctx context.Context, recipient, replyToID, text string) error {
	return b.send(ctx, SendMessageRequest{Phone: recipient, Message: text, ReplyMessageID: replyToID})
}

func (b *WhatsAppBot) send(ctx context.Context, req SendMessageRequest) error {
	jsonBody, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	delay := b.retryDelay
	for attempt := 1; ; attempt++ {
		err = b.post(ctx, jsonBody)
		if err == nil {
			b.log.Debug("message sent", slog.String("recipient", req.Phone))
			return nil
		}
		var perm *permanentError
		if errors.As(err, &perm) || attempt >= maxAttempts {
			return fmt.Errorf("send to %s after %d attempts: %w", req.Phone, attempt, err)
		}
		b.log.Warn("send failed, retrying",
			slog.String("recipient", req.Phone),
			slog.Int("attempt", attempt),
			sl.Err(err),
		)
		select {
		case <-ctx.Done():
			return fmt.Errorf("send to %s: %w", req.Phone, ctx.Err())
		case <-b.stopping:
			return fmt.Errorf("send to %s: shutting down: %w", req.Phone, err)
		case <-time.After(delay):
		}
		delay *= 2
	}
}

// permanentError is a gateway rejection that retrying cannot fix.
type permanentError struct {
	status int
	body   string
}

func (e *permanentError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.status, e.body)
}

func (b *WhatsAppBot) post(ctx context.Context, jsonBody []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+sendMessagePath, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", b.authorization)
	if b.deviceID != "" {
		req.Header.Set("X-Device-Id", b.deviceID)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}
	return &permanentError{status: resp.StatusCode, body: string(body)}
}

func (b *WhatsAppBot) verifySignature(body []byte, header string) bool {
	return signature.Verify(body, header, b.webhookSecret)
}
