// Package api wraps the HTTP endpoints of the Codac backend: signup,
// feedback, billing and the AI chat. Each call is a single request and
// response; there is no retry layer.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Hetav2211/Frontend-Codac/internal/domain"
)

const requestTimeout = 15 * time.Second

// Client talks to the backend REST API.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logrus.Logger
}

// NewClient builds a Client for the backend at baseURL.
func NewClient(baseURL string, log *logrus.Logger) *Client {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
		log:     log,
	}
}

// errorBody tolerates the two error shapes the backend uses.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// postJSON sends body to path and decodes the response into out (when out
// is non-nil). Responses with status >= 400 become a StatusError carrying
// the backend's message.
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithError(err).WithField("path", path).Warn("backend request failed")
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var eb errorBody
		_ = json.Unmarshal(data, &eb)
		msg := eb.Message
		if msg == "" {
			msg = eb.Error
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		c.log.WithFields(logrus.Fields{"path": path, "status": resp.StatusCode}).Warn(msg)
		return &StatusError{Code: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// CreateCheckoutSession starts a payment flow for plan at price (whole
// currency units) and returns the provider session id.
func (c *Client) CreateCheckoutSession(ctx context.Context, plan domain.Plan, price int) (string, error) {
	var res struct {
		SessionID string `json:"sessionId"`
	}
	body := map[string]any{"plan": string(plan), "price": price}
	if err := c.postJSON(ctx, "/create-checkout-session", body, &res); err != nil {
		return "", err
	}
	return res.SessionID, nil
}

// UpdatePlan records the user's plan on the backend.
func (c *Client) UpdatePlan(ctx context.Context, userID string, plan domain.Plan) error {
	body := map[string]any{"userId": userID, "plan": string(plan)}
	return c.postJSON(ctx, "/api/user/plan", body, nil)
}

// SubmitFeedback sends a feedback entry. Rating is mandatory, 1 to 5.
func (c *Client) SubmitFeedback(ctx context.Context, name, email, message string, rating int) error {
	if rating < 1 || rating > 5 {
		return ErrRatingRequired
	}
	body := map[string]any{
		"name":    name,
		"email":   email,
		"message": message,
		"rating":  rating,
	}
	return c.postJSON(ctx, "/api/feedback", body, nil)
}

// AIChat sends one prompt to the assistant endpoint and returns the reply.
// The backend answers {"chatRes": ...}, {"text": ...} or a bare string.
func (c *Client) AIChat(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}
	payload, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/ai-chat", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithError(err).Warn("ai chat request failed")
		return "", fmt.Errorf("request /api/ai-chat: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var eb errorBody
		_ = json.Unmarshal(data, &eb)
		msg := eb.Message
		if msg == "" {
			msg = eb.Error
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", &StatusError{Code: resp.StatusCode, Message: msg}
	}

	var res struct {
		ChatRes string `json:"chatRes"`
		Text    string `json:"text"`
	}
	if err := json.Unmarshal(data, &res); err == nil {
		if res.ChatRes != "" {
			return res.ChatRes, nil
		}
		if res.Text != "" {
			return res.Text, nil
		}
	}
	return strings.TrimSpace(string(data)), nil
}

// Signup registers a new account and returns it together with the issued
// token.
func (c *Client) Signup(ctx context.Context, name, email, password string) (domain.Account, string, error) {
	var res struct {
		Token string         `json:"token"`
		User  domain.Account `json:"user"`
	}
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.postJSON(ctx, "/api/auth/signup", body, &res); err != nil {
		return domain.Account{}, "", err
	}
	return res.User, res.Token, nil
}
