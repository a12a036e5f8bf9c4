package sms

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Sender delivers a short text message to a mobile number.
type Sender interface {
	Send(ctx context.Context, mobile, message string) error
}

// LogSender writes the message to the process log. Used in development
// and whenever no gateway is configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, mobile, message string) error {
	log.Printf("SMS to %s: %s", mobile, message)
	return nil
}

// Gateway posts form-encoded messages to an HTTP SMS provider.
type Gateway struct {
	URL      string
	APIKey   string
	Username string
	SenderID string
	Client   *http.Client
}

func NewGateway(apiURL, apiKey, username, senderID string) *Gateway {
	return &Gateway{
		URL:      apiURL,
		APIKey:   apiKey,
		Username: username,
		SenderID: senderID,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *Gateway) Send(ctx context.Context, mobile, message string) error {
	data := url.Values{}
	data.Set("username", g.Username)
	data.Set("to", mobile)
	data.Set("message", message)
	data.Set("from", g.SenderID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.URL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("apikey", g.APIKey)

	resp, err := g.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send sms to %s: %w", mobile, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}
	return nil
}
