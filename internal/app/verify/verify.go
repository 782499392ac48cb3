// Package verify calls the third-party endpoints that confirm payments and
// bot-protection tokens. Every client answers with a plain bool: transport or
// decoding problems are logged and reported as "not verified".
package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	PaystackBaseURL  = "https://api.paystack.co"
	RecaptchaURL     = "https://www.google.com/recaptcha/api/siteverify"
	TurnstileURL     = "https://challenges.cloudflare.com/turnstile/v0/siteverify"
	paystackSuccess  = "success"
	maxResponseBytes = 1 << 20
)

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// ============ Paystack ============

type Paystack struct {
	BaseURL string
	secret  string
	client  *http.Client
}

func NewPaystack(secret string, timeout time.Duration) *Paystack {
	return &Paystack{BaseURL: PaystackBaseURL, secret: secret, client: newHTTPClient(timeout)}
}

type paystackResponse struct {
	Status bool `json:"status"`
	Data   struct {
		Status string `json:"status"`
	} `json:"data"`
}

// VerifyTransaction reports whether reference is a successful transaction.
func (p *Paystack) VerifyTransaction(ctx context.Context, reference string) bool {
	endpoint := strings.TrimRight(p.BaseURL, "/") + "/transaction/verify/" + url.PathEscape(reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		logrus.Errorf("paystack: build request: %v", err)
		return false
	}
	req.Header.Set("Authorization", "Bearer "+p.secret)
	req.Header.Set("Content-Type", "application/json")

	var result paystackResponse
	if err := doJSON(p.client, req, &result); err != nil {
		logrus.Errorf("paystack verification error: %v", err)
		return false
	}
	return result.Status && result.Data.Status == paystackSuccess
}

// ============ reCAPTCHA ============

type Recaptcha struct {
	URL    string
	secret string
	client *http.Client
}

func NewRecaptcha(secret string, timeout time.Duration) *Recaptcha {
	return &Recaptcha{URL: RecaptchaURL, secret: secret, client: newHTTPClient(timeout)}
}

func (r *Recaptcha) Verify(ctx context.Context, token string) bool {
	form := url.Values{}
	form.Set("secret", r.secret)
	form.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.URL, strings.NewReader(form.Encode()))
	if err != nil {
		logrus.Errorf("recaptcha: build request: %v", err)
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return siteVerify(r.client, req, "recaptcha")
}

// ============ Turnstile ============

type Turnstile struct {
	URL    string
	secret string
	client *http.Client
}

func NewTurnstile(secret string, timeout time.Duration) *Turnstile {
	return &Turnstile{URL: TurnstileURL, secret: secret, client: newHTTPClient(timeout)}
}

func (t *Turnstile) Verify(ctx context.Context, token string) bool {
	body, err := json.Marshal(map[string]string{
		"secret":   t.secret,
		"response": token,
	})
	if err != nil {
		logrus.Errorf("turnstile: encode request: %v", err)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.URL, bytes.NewReader(body))
	if err != nil {
		logrus.Errorf("turnstile: build request: %v", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	return siteVerify(t.client, req, "turnstile")
}

// ============ helpers ============

type siteVerifyResponse struct {
	Success bool `json:"success"`
}

func siteVerify(client *http.Client, req *http.Request, name string) bool {
	var result siteVerifyResponse
	if err := doJSON(client, req, &result); err != nil {
		logrus.Errorf("%s verification error: %v", name, err)
		return false
	}
	return result.Success
}

// doJSON sends req and decodes the body regardless of status code; the
// providers report failures inside the JSON payload.
func doJSON(client *http.Client, req *http.Request, dst any) error {
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	return nil
}
