package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	bookModel "library-backend/internal/domains/book/model"
	"library-backend/internal/domains/user/model"
	"library-backend/pkg/container"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "libctl",
		Short:         "Library backend operator tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCreateStaffCmd(), newReconcileCmd(), newFlushCacheCmd())
	return root
}

// ========================================
// create-staff
// ========================================

func newCreateStaffCmd() *cobra.Command {
	var username, email string

	cmd := &cobra.Command{
		Use:   "create-staff",
		Short: "Create a staff account (prompts for the password)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readPassword(cmd, "Password: ")
			if err != nil {
				return err
			}
			confirm, err := readPassword(cmd, "Confirm password: ")
			if err != nil {
				return err
			}
			if password != confirm {
				return errors.New("passwords do not match")
			}

			c, err := container.NewContainer()
			if err != nil {
				return fmt.Errorf("init container: %w", err)
			}
			defer c.Cleanup()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			user, err := c.UserService.CreateStaff(ctx, model.RegisterRequest{
				Username: username,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created staff user %s (%s)\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&email, "email", "e", "", "email")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// readPassword reads without echo when stdin is a terminal
func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("password prompt requires a terminal")
	}

	fmt.Fprint(cmd.OutOrStdout(), prompt)
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

// ========================================
// reconcile
// ========================================

func newReconcileCmd() *cobra.Command {
	var async bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Recompute book availability from active borrowings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := container.NewContainer()
			if err != nil {
				return fmt.Errorf("init container: %w", err)
			}
			defer c.Cleanup()

			if async {
				if err := c.Queue.EnqueueReconcile(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Reconciliation task enqueued")
				return nil
			}

			changed, err := c.Reconciler.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reconciled availability: %d book(s) changed\n", changed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&async, "async", false, "enqueue for the worker instead of running inline")
	return cmd
}

// ========================================
// flush-cache
// ========================================

func newFlushCacheCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flush-cache",
		Short: "Drop every cached book detail",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := container.NewContainer()
			if err != nil {
				return fmt.Errorf("init container: %w", err)
			}
			defer c.Cleanup()

			if err := c.Cache.DeletePattern(cmd.Context(), bookModel.CacheKeyPattern); err != nil {
				return fmt.Errorf("flush book cache: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Book cache flushed")
			return nil
		},
	}
}
