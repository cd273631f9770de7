package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/LeeyaD/phonebook-server/config"
	"github.com/LeeyaD/phonebook-server/internal/application"
	"github.com/LeeyaD/phonebook-server/internal/infrastructure"
	"github.com/LeeyaD/phonebook-server/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogFile)
	ctx := context.Background()

	store, closeStore, err := infrastructure.OpenStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer closeStore()

	jwt := helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	users := application.NewUserService(store, application.NewAuthenticator(jwt), logger)
	contacts := application.NewContactService(store, logger)

	username := "demoUser"
	password := "password123"

	_, err = users.Register(ctx, application.RegisterInput{Username: username, Name: "Demo User", Password: password})
	if err != nil && !errors.Is(err, application.ErrUsernameTaken) {
		log.Fatalf("failed to seed user: %v", err)
	}
	u, err := store.Users.GetByUsername(ctx, username)
	if err != nil {
		log.Fatalf("failed to load seeded user: %v", err)
	}
	fmt.Printf("seeded user: id=%s username=%s password=%s\n", u.ID, username, password)

	if len(u.ContactIDs) > 0 {
		fmt.Println("contacts already seeded")
		return
	}
	uc := application.UserContext{User: *u}
	for _, in := range []application.ContactInput{
		{Name: "Steve Rogers", Number: "123-45567"},
		{Name: "Jenny J", Number: "867-53095"},
	} {
		c, err := contacts.Create(ctx, uc, in)
		if err != nil {
			log.Fatalf("failed to seed contact %q: %v", in.Name, err)
		}
		fmt.Printf("seeded contact: id=%s name=%s number=%s\n", c.ID, c.Name, c.Number)
	}
}
