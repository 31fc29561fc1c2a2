// listusers prints every account in the configured store.
//
// Usage: go run ./cmd/listusers [--json]
package main

import (
	"context"
	"errors"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/jhoicas/farm-directory-api/internal/application/auth"
	"github.com/jhoicas/farm-directory-api/internal/application/dto"
	"github.com/jhoicas/farm-directory-api/internal/infrastructure/storage"
	"github.com/jhoicas/farm-directory-api/pkg/config"
	"github.com/jhoicas/farm-directory-api/pkg/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "listusers: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var asJSON bool
	flags := pflag.NewFlagSet("listusers", pflag.ContinueOnError)
	flags.BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "warn", Output: os.Stderr})

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg.DB, log.Zerolog())
	if err != nil {
		return err
	}
	defer store.Close()

	users, err := store.Users.List(ctx)
	if err != nil {
		return err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, auth.ToUserResponse(u))
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Println("Current Users:")
	if len(out) == 0 {
		fmt.Println("No users found.")
		return nil
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tROLE\tSTATUS")
	for _, u := range out {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Email, u.Name, u.Role, u.Status)
	}
	return tw.Flush()
}
