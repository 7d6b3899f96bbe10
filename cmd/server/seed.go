package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"doctorsportal/internal/db"
	"doctorsportal/internal/service"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load appointment options from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}
			var services []db.Service
			if err := json.Unmarshal(raw, &services); err != nil {
				return fmt.Errorf("parse %s: %w", file, err)
			}

			ctx := context.Background()
			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			catalog := service.NewCatalogService(store.Services)
			for i := range services {
				if err := catalog.UpsertService(ctx, &services[i]); err != nil {
					return fmt.Errorf("service %q: %w", services[i].Name, err)
				}
			}
			log.Info().Int("count", len(services)).Str("file", file).Msg("catalog seeded")
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "services.json", "JSON array of appointment options")
	return cmd
}

func newCreateAdminCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := context.Background()
			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			admins := service.NewAdminAuthService(store.Admins, nil)
			if err := admins.CreateAdmin(ctx, email, password); err != nil {
				return err
			}
			log.Info().Str("email", email).Msg("admin created")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
