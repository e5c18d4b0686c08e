package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// MockEmailTTL is how long a captured message stays readable.
const MockEmailTTL = 5 * time.Minute

// MockEmailKey is where RedisSender stores the last message of a template sent to an address.
func MockEmailKey(to, templateID string) string {
	return fmt.Sprintf("mockemail:%s:%s", strings.ToLower(to), templateID)
}

// CapturedEmail is the JSON document RedisSender stores.
type CapturedEmail struct {
	To         string `json:"to"`
	From       string `json:"from"`
	Subject    string `json:"subject"`
	TemplateID string `json:"template_id"`
	Body       string `json:"body"`
	SentAt     string `json:"sent_at"`
}

// RedisSender captures emails in Redis instead of sending them, so end-to-end
// tests can read them back through the service API.
type RedisSender struct {
	client redis.Cmdable
}

func NewRedisSender(client redis.Cmdable) *RedisSender {
	return &RedisSender{client: client}
}

// parseMessage pulls headers and body out of the raw message. A message that
// doesn't parse is kept whole as the body.
func parseMessage(raw []byte) (from, templateID, body string) {
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return "", "unknown", string(raw)
	}
	b, err := io.ReadAll(msg.Body)
	if err != nil {
		return "", "unknown", string(raw)
	}
	templateID = msg.Header.Get(TemplateHeader)
	if templateID == "" {
		templateID = "unknown"
	}
	return msg.Header.Get("From"), templateID, string(b)
}

func (s *RedisSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	from, templateID, body := parseMessage(rawMessage)

	for _, addr := range to {
		data, err := json.Marshal(CapturedEmail{
			To:         addr,
			From:       from,
			Subject:    subject,
			TemplateID: templateID,
			Body:       body,
			SentAt:     time.Now().UTC().Format(time.RFC3339Nano),
		})
		if err != nil {
			return fmt.Errorf("failed to marshal email data: %w", err)
		}

		key := MockEmailKey(addr, templateID)
		if err := s.client.Set(ctx, key, data, MockEmailTTL).Err(); err != nil {
			return fmt.Errorf("failed to store email in Redis key '%s': %w", key, err)
		}
		log.Printf("Mock email stored in Redis key '%s' (TTL: %v, Subject: %s)", key, MockEmailTTL, subject)
	}
	return nil
}
