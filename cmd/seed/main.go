// seed creates an account directly in the configured store. Existing emails
// are left untouched.
//
// Usage: go run ./cmd/seed [--email E] [--password P] [--name N] [--role user|admin] [--status S]
// Defaults create the pending test account testuser@example.com / password123.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/jhoicas/farm-directory-api/internal/application/auth"
	"github.com/jhoicas/farm-directory-api/internal/domain/entity"
	"github.com/jhoicas/farm-directory-api/internal/infrastructure/storage"
	"github.com/jhoicas/farm-directory-api/pkg/config"
	"github.com/jhoicas/farm-directory-api/pkg/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var seed auth.SeedAccount
	var role, status string

	flags := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	flags.StringVar(&seed.Email, "email", "testuser@example.com", "account email")
	flags.StringVar(&seed.Password, "password", "password123", "account password")
	flags.StringVar(&seed.Name, "name", "Test User", "display name")
	flags.StringVar(&role, "role", string(entity.RoleUser), "user or admin")
	flags.StringVar(&status, "status", string(entity.UserPendingApproval), "pending_approval, approved, rejected or suspended")
	if err := flags.Parse(args); err != nil {
		return err
	}
	seed.Role = entity.Role(role)
	seed.Status = entity.UserStatus(status)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg.DB, log.Zerolog())
	if err != nil {
		return err
	}
	defer store.Close()

	uc := auth.NewAuthUseCase(store.Users, auth.JWTConfig{Secret: cfg.JWT.Secret}, cfg.Auth.BcryptCost)
	created, err := uc.EnsureAccount(ctx, seed)
	if err != nil {
		return err
	}
	if !created {
		fmt.Printf("User already exists: %s\n", seed.Email)
		return nil
	}
	fmt.Printf("User created: %s\n", seed.Email)
	fmt.Printf("Role: %s, Status: %s\n", seed.Role, seed.Status)
	return nil
}
