package dto

import (
	"encoding/json"
	"time"
)

const (
	StatusSubmitted = "submitted"
	StatusPaid      = "paid"
)

// isoLayout matches the millisecond UTC timestamps the form builder UI expects.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// Timestamp renders t as an ISO-8601 UTC string with millisecond precision.
func Timestamp(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

// ============ Submissions ============

type Submission struct {
	ID               string         `json:"id"`
	Data             map[string]any `json:"data"`
	Files            []FileRecord   `json:"files"`
	PaymentReference string         `json:"paymentReference,omitempty"`
	Amount           *float64       `json:"amount,omitempty"`
	Timestamp        string         `json:"timestamp"`
	Status           string         `json:"status"`
}

// Email returns the submitter address when the form data carries one.
func (s Submission) Email() string {
	email, _ := s.Data["email"].(string)
	return email
}

type FileRecord struct {
	Field    string `json:"field,omitempty"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
	Type     string `json:"type"`
}

type SubmitJSONRequest struct {
	FormData map[string]any `json:"formData"`
}

// PaymentFields is read from the submission body by a separate decode.
type PaymentFields struct {
	PaymentReference string   `json:"paymentReference"`
	Amount           *float64 `json:"amount"`
}

type SubmitResponse struct {
	Success      bool   `json:"success"`
	SubmissionID string `json:"submissionId"`
	Message      string `json:"message"`
}

type SubmissionListResponse struct {
	Submissions []Submission `json:"submissions"`
}

// ============ Drafts ============

type Draft struct {
	FormID  string          `json:"formId"`
	Data    json.RawMessage `json:"data"`
	SavedAt string          `json:"savedAt"`
}

type SaveDraftRequest struct {
	DraftID string          `json:"draftId"`
	FormID  string          `json:"formId"`
	Data    json.RawMessage `json:"data"`
}

type SaveDraftResponse struct {
	Success bool   `json:"success"`
	DraftID string `json:"draftId"`
}

// ============ Forms ============

type FormListResponse struct {
	Forms []FormConfig `json:"forms"`
}

type SaveFormResponse struct {
	Success bool   `json:"success"`
	FormID  string `json:"formId"`
}

// ============ Verification ============

type VerifyPaymentRequest struct {
	Reference string `json:"reference"`
}

type VerifyTokenRequest struct {
	Token string `json:"token"`
}

type ValidResponse struct {
	Valid bool `json:"valid"`
}

// ============ Common ============

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
