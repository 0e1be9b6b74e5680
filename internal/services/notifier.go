package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/taskhive-dev/taskhive/internal/logger"
)

// NotificationRequest is the payload posted to the notification gateway,
// which owns actual mail delivery.
type NotificationRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// SendNotification posts a message to the gateway configured via
// NOTIFY_WEBHOOK_URL. Delivery is best-effort: callers fire it from a
// goroutine and a failure never rolls back the state change that caused it.
func SendNotification(to, subject, body string) error {
	webhookURL := os.Getenv("NOTIFY_WEBHOOK_URL")

	if webhookURL == "" {
		logger.Warn("notification gateway not configured, dropping message", "to", to, "subject", subject)
		return nil
	}

	payload, err := json.Marshal(NotificationRequest{
		To:      to,
		Subject: subject,
		Body:    body,
	})

	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	resp, err := http.Post(webhookURL, "application/json", bytes.NewBuffer(payload))

	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("notification gateway returned status %d", resp.StatusCode)
	}

	return nil
}

// NotifyAsync sends in the background and logs failures.
func NotifyAsync(to, subject, body string) {
	go func() {
		if err := SendNotification(to, subject, body); err != nil {
			logger.Error("notification delivery failed", "to", to, "subject", subject, "error", err)
		}
	}()
}
