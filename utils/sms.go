// utils/sms.go
//
// Minimal client for the Africa's Talking SMS REST API. Only the messaging
// endpoint is covered; the gateway's webhook side is handled in the USSD
// handlers.
package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const atMessagingURL = "https://api.africastalking.com/version1/messaging"

type SMSClient struct {
	Username string
	APIKey   string
	BaseURL  string

	httpClient *http.Client
}

func NewSMSClient(username, apiKey string) *SMSClient {
	return &SMSClient{
		Username:   username,
		APIKey:     apiKey,
		BaseURL:    atMessagingURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Send delivers a single SMS. The returned map is the provider's response
// body decoded verbatim.
func (c *SMSClient) Send(to, from, message string) (map[string]interface{}, error) {
	form := url.Values{}
	form.Set("username", c.Username)
	form.Set("to", to)
	form.Set("message", message)
	if from != "" {
		form.Set("from", from)
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apiKey", c.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("sms gateway returned %d: %s", resp.StatusCode, string(body))
	}

	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("sms gateway returned malformed response: %w", err)
	}
	return result, nil
}
