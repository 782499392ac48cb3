package main

import (
	"context"
	"fmt"

	"formbackend/internal/app/config"
	"formbackend/internal/app/repository"

	"github.com/sirupsen/logrus"
)

// dbcheck prints what the relational store holds: every form row and the most
// recent submissions.
func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("error loading config: %v", err)
	}
	if !cfg.DatabaseEnabled() {
		logrus.Fatal("DB_HOST is not set")
	}

	repo, err := repository.New(cfg.DSN)
	if err != nil {
		logrus.Fatal("Failed to connect to database: ", err)
	}

	ctx := context.Background()

	forms, err := repo.ListFormConfigs(ctx)
	if err != nil {
		logrus.Fatal("Failed to get forms: ", err)
	}
	fmt.Println("Forms in database:")
	for _, form := range forms {
		fmt.Printf("ID: %s, Name: %s, Active: %t, Updated: %s\n",
			form.ID, form.Name, form.Active, form.UpdatedAt.Format("2006-01-02 15:04:05"))
	}

	submissions, err := repo.LatestSubmissions(ctx, 10)
	if err != nil {
		logrus.Fatal("Failed to get submissions: ", err)
	}
	fmt.Println("Latest submissions:")
	for _, s := range submissions {
		ref := "NULL"
		if s.PaymentRef != nil {
			ref = *s.PaymentRef
		}
		fmt.Printf("ID: %s, Status: %s, Email: %s, PaymentRef: %s\n", s.ID, s.Status, s.Email, ref)
	}
}
