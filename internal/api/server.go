package api

import (
	"context"

	"formbackend/internal/app/config"
	"formbackend/internal/pkg"

	"github.com/sirupsen/logrus"
)

func StartServer() {
	logrus.Info("Starting server")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("error loading config: %v", err)
	}

	app, err := pkg.NewApp(context.Background(), cfg)
	if err != nil {
		logrus.Fatalf("error initializing application: %v", err)
	}
	defer app.Close()

	app.RunApp()
}
