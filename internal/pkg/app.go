package pkg

import (
	"context"
	"fmt"

	"formbackend/internal/app/config"
	"formbackend/internal/app/handler"
	"formbackend/internal/app/middleware"
	"formbackend/internal/app/notify"
	"formbackend/internal/app/redis"
	"formbackend/internal/app/repository"
	"formbackend/internal/app/storage"
	"formbackend/internal/app/verify"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Application struct {
	Config  *config.Config
	Router  *gin.Engine
	Handler *handler.Handler

	redis *redis.Client
}

// NewApp connects every store the config enables. A store that is configured
// but unreachable fails startup; one that is not configured is simply skipped.
func NewApp(ctx context.Context, c *config.Config) (*Application, error) {
	app := &Application{Config: c, Router: gin.New()}

	deps := handler.Deps{
		Payments:  verify.NewPaystack(c.Secrets.PaystackSecretKey, c.HTTPTimeout),
		Recaptcha: verify.NewRecaptcha(c.Secrets.RecaptchaSecretKey, c.HTTPTimeout),
		Turnstile: verify.NewTurnstile(c.Secrets.TurnstileSecretKey, c.HTTPTimeout),
	}

	if c.RedisEnabled() {
		kv, err := redis.New(ctx, c.Redis)
		if err != nil {
			return nil, err
		}
		app.redis = kv
		deps.KV = kv
	} else {
		logrus.Warn("REDIS_HOST not set, forms are not cached and drafts are not kept")
	}

	if c.DatabaseEnabled() {
		repo, err := repository.New(c.DSN)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("init repository: %w", err)
		}
		deps.Forms = repo
		deps.Submissions = repo
	} else {
		logrus.Warn("DB_HOST not set, submissions are not persisted")
	}

	if c.MinIOEnabled() {
		objects, err := storage.NewMinIOClient(ctx, c.MinIO)
		if err != nil {
			app.Close()
			return nil, err
		}
		deps.Objects = objects
	}

	if c.Secrets.ResendAPIKey != "" {
		deps.Mailer = notify.NewResendMailer(c.Secrets.ResendAPIKey, c.EmailFrom, c.HTTPTimeout)
	}
	if c.Secrets.WebhookURL != "" {
		deps.Webhook = notify.NewWebhook(c.Secrets.WebhookURL, c.HTTPTimeout)
	}

	app.Handler = handler.NewHandler(deps, middleware.NewAuthMiddleware(c.Secrets.APISecret), c.DraftTTL)
	return app, nil
}

func (a *Application) RunApp() {
	logrus.Info("Server start up")

	a.Handler.RegisterRoutes(a.Router)

	serverAddress := fmt.Sprintf("%s:%d", a.Config.ServiceHost, a.Config.ServicePort)
	logrus.Infof("Starting server on %s", serverAddress)

	if err := a.Router.Run(serverAddress); err != nil {
		logrus.Fatal(err)
	}

	logrus.Info("Server down")
}

func (a *Application) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			logrus.Errorf("close redis: %v", err)
		}
	}
}
