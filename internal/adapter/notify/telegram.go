package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultAPIBase = "https://api.telegram.org"

// Telegram dispatches messages through the Telegram Bot API. It implements
// usecase.Notifier; a zero token disables it entirely.
type Telegram struct {
	token   string
	chatIDs []string
	apiBase string
	client  *http.Client
}

// NewTelegram creates a new Telegram notifier.
func NewTelegram(token string, chatIDs []string, timeout time.Duration) *Telegram {
	return &Telegram{
		token:   token,
		chatIDs: chatIDs,
		apiBase: defaultAPIBase,
		client:  &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether the notifier is configured to send anything.
func (t *Telegram) Enabled() bool {
	return t.token != "" && len(t.chatIDs) > 0
}

// Recipients returns the configured chat ids.
func (t *Telegram) Recipients() []string {
	return t.chatIDs
}

// Send delivers one message to one chat.
func (t *Telegram) Send(ctx context.Context, recipient, text string) error {
	payload, err := json.Marshal(map[string]string{
		"chat_id": recipient,
		"text":    text,
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API returned %d", res.StatusCode)
	}

	return nil
}
