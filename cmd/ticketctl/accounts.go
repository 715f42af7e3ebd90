package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/event-ticketing/internal/repository"
	"github.com/iliyamo/event-ticketing/internal/utils"
)

type credentialFlags struct {
	username string
	password string
}

func (f *credentialFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.username, "username", "u", "", "account username (required)")
	cmd.Flags().StringVarP(&f.password, "password", "p", "", "account password (required)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
}

func (f *credentialFlags) validate() error {
	f.username = strings.TrimSpace(f.username)
	if f.username == "" {
		return errors.New("username must not be blank")
	}
	if !utils.IsPasswordStrong(f.password) {
		return fmt.Errorf("password must be at least %d characters with upper, lower, digit and special characters",
			utils.MinPasswordLength)
	}
	return nil
}

func createSuperadminCmd() *cobra.Command {
	var creds credentialFlags
	cmd := &cobra.Command{
		Use:   "create-superadmin",
		Short: "Create a superadmin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := creds.validate(); err != nil {
				return err
			}
			db, cfg, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			hash, err := utils.HashPassword(creds.password, cfg.BcryptCost)
			if err != nil {
				return err
			}
			id, err := repository.NewSuperadminRepo(db).Create(context.Background(), creds.username, hash)
			if err != nil {
				return fmt.Errorf("create superadmin: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "superadmin %q created with id %d\n", creds.username, id)
			return nil
		},
	}
	creds.bind(cmd)
	return cmd
}

func createAdminCmd() *cobra.Command {
	var (
		creds  credentialFlags
		events []uint
	)
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin scoped to one or more events",
		Example: `  ticketctl create-admin -u organiser -p 'S3cure!pw' --events 3,7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := creds.validate(); err != nil {
				return err
			}
			if len(events) == 0 {
				return errors.New("at least one --events id is required")
			}
			ids := make([]uint64, len(events))
			for i, e := range events {
				ids[i] = uint64(e)
			}
			db, cfg, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			hash, err := utils.HashPassword(creds.password, cfg.BcryptCost)
			if err != nil {
				return err
			}
			id, err := repository.NewAdminRepo(db).Create(context.Background(), creds.username, hash, ids)
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %q created with id %d for events %v\n", creds.username, id, ids)
			return nil
		},
	}
	creds.bind(cmd)
	cmd.Flags().UintSliceVar(&events, "events", nil, "event ids the admin manages")
	return cmd
}

func hashPasswordCmd() *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print the bcrypt hash of a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeHash(cmd.OutOrStdout(), args[0], cost)
		},
	}
	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	return cmd
}

func writeHash(w io.Writer, password string, cost int) error {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, hash)
	return err
}
