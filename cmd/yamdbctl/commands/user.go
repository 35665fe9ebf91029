// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/users/account"
)

func newUserCommand(opts *options) *cobra.Command {
	user := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
		Long: `Create accounts and change roles without going through the API.

The first admin of a fresh installation is created this way.`,
	}

	var input account.CreateInput

	create := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Long: `Create an account directly in the database.

Examples:
  yamdbctl user create --username root --email root@example.com --role admin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAccounts(cmd.Context(), opts, func(service *account.Service) error {
				created, err := service.Create(cmd.Context(), input)
				if err != nil {
					return describe(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %s <%s> as %s\n", created.Username, created.Email, created.Role)
				return nil
			})
		},
	}
	create.Flags().StringVar(&input.Username, "username", "", "Username")
	create.Flags().StringVar(&input.Email, "email", "", "Email address")
	create.Flags().StringVar(&input.Role, "role", sec.RoleUser.String(), "Role: user, moderator or admin")
	_ = create.MarkFlagRequired("username")
	_ = create.MarkFlagRequired("email")

	promote := &cobra.Command{
		Use:   "promote <username> <role>",
		Short: "Change the role of an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			username, role := args[0], args[1]
			return withAccounts(cmd.Context(), opts, func(service *account.Service) error {
				updated, err := service.Update(cmd.Context(), username, account.UpdateInput{Role: &role})
				if err != nil {
					return describe(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", updated.Username, updated.Role)
				return nil
			})
		},
	}

	user.AddCommand(create, promote)
	return user
}

func withAccounts(ctx context.Context, opts *options, fn func(service *account.Service) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	pool, err := opts.pool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	return fn(account.NewService(account.NewAccountRepository(pool)))
}

// describe flattens field details into the error text for the terminal.
func describe(err error) error {
	appError := apperr.As(err)
	if appError == nil || len(appError.Details) == 0 {
		return err
	}

	message := appError.Message
	for _, detail := range appError.Details {
		message += fmt.Sprintf("\n  %s: %s", detail.Field, detail.Message)
	}
	return errors.New(message)
}
