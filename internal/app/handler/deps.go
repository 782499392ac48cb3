package handler

//go:generate mockgen -source=deps.go -destination=mocks/deps_mock.go -package=mocks

import (
	"context"
	"time"

	"formbackend/internal/app/ds"
	"formbackend/internal/app/dto"
)

// KeyValueStore is the fast path for forms and the only home of drafts.
type KeyValueStore interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	PutJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}

// FormStore is the relational source of truth for form definitions.
type FormStore interface {
	UpsertFormConfig(ctx context.Context, row *ds.FormConfig) error
	GetActiveFormConfig(ctx context.Context, id string) (*ds.FormConfig, error)
	ListFormConfigs(ctx context.Context) ([]ds.FormConfig, error)
	UpdateFormConfig(ctx context.Context, id, name string, config []byte, updatedAt time.Time) error
	DeactivateFormConfig(ctx context.Context, id string) error
}

type SubmissionStore interface {
	CreateSubmission(ctx context.Context, row *ds.Submission) error
	LatestSubmissions(ctx context.Context, limit int) ([]ds.Submission, error)
}

type ObjectStore interface {
	PutObject(ctx context.Context, key string, data []byte, contentType string) error
}

type PaymentVerifier interface {
	VerifyTransaction(ctx context.Context, reference string) bool
}

type TokenVerifier interface {
	Verify(ctx context.Context, token string) bool
}

type Mailer interface {
	SendConfirmation(ctx context.Context, to string, submission dto.Submission) error
}

type WebhookSender interface {
	Send(ctx context.Context, submission dto.Submission) error
}

// Deps are the external collaborators. A nil field means that binding is not
// configured and every operation skips it.
type Deps struct {
	KV          KeyValueStore
	Forms       FormStore
	Submissions SubmissionStore
	Objects     ObjectStore
	Payments    PaymentVerifier
	Recaptcha   TokenVerifier
	Turnstile   TokenVerifier
	Mailer      Mailer
	Webhook     WebhookSender
}
