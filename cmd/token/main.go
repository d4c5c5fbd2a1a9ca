// cmd/token/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	app "tradein-settlement/internal"
	"tradein-settlement/internal/domain"
	"tradein-settlement/internal/util"
)

// token registers a user (when the email is new) and prints a bearer token for it.
func main() {
	email := flag.String("email", "", "user email")
	name := flag.String("name", "", "full name for a new user")
	admin := flag.Bool("admin", false, "create the user as an admin")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "usage: token -email someone@example.com [-name N] [-admin]")
		os.Exit(2)
	}

	ctx := context.Background()
	application := app.NewApplication()
	if err := application.Initialize(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialize application:", err)
		os.Exit(1)
	}
	defer func() { _ = application.Shutdown(ctx) }()

	role := domain.RoleCustomer
	if *admin {
		role = domain.RoleAdmin
	}

	user, _, err := application.WalletService.CreateUserAndWallet(ctx, *email, *name, role)
	if util.IsError(err, util.ErrDuplicateEntry) {
		user, err = application.UserRepository.GetUserByEmail(ctx, application.DB, strings.ToLower(strings.TrimSpace(*email)))
	}
	if err != nil {
		application.Logger.Error("Failed to resolve user", "email", *email, "error", err)
		os.Exit(1)
	}

	token, err := application.Auth.IssueToken(user)
	if err != nil {
		application.Logger.Error("Failed to issue token", "error", err)
		os.Exit(1)
	}
	_ = json.NewEncoder(os.Stdout).Encode(token)
}
