// Package notify delivers submission notifications: the confirmation email sent
// to the submitter and the webhook call to the form owner.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"formbackend/internal/app/dto"

	"github.com/sirupsen/logrus"
)

const (
	ResendURL           = "https://api.resend.com/emails"
	confirmationSubject = "Form Submission Confirmation"
)

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`
<h2>Thank you for your submission!</h2>
<p>Submission ID: {{.ID}}</p>
<p>Status: {{.Status}}</p>
`))

// ============ Email ============

type ResendMailer struct {
	URL    string
	apiKey string
	from   string
	client *http.Client
}

func NewResendMailer(apiKey, from string, timeout time.Duration) *ResendMailer {
	return &ResendMailer{
		URL:    ResendURL,
		apiKey: apiKey,
		from:   from,
		client: &http.Client{Timeout: timeout},
	}
}

type resendEmail struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// SendConfirmation emails the submitter their submission id and status.
func (m *ResendMailer) SendConfirmation(ctx context.Context, to string, submission dto.Submission) error {
	var html bytes.Buffer
	if err := confirmationTemplate.Execute(&html, submission); err != nil {
		return fmt.Errorf("render confirmation: %w", err)
	}

	body, err := json.Marshal(resendEmail{
		From:    m.from,
		To:      to,
		Subject: confirmationSubject,
		HTML:    html.String(),
	})
	if err != nil {
		return fmt.Errorf("encode email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("email provider responded %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// ============ Webhook ============

type Webhook struct {
	url    string
	client *http.Client
}

func NewWebhook(url string, timeout time.Duration) *Webhook {
	return &Webhook{url: url, client: &http.Client{Timeout: timeout}}
}

// Send posts the submission as JSON. Only a failure to deliver the request is an
// error; whatever status the receiver answers with is logged and accepted.
func (w *Webhook) Send(ctx context.Context, submission dto.Submission) error {
	body, err := json.Marshal(submission)
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook delivery: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		logrus.Warnf("webhook responded %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
