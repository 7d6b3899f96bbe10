package main

import (
	"context"
	"fmt"
	"os"

	"doctorsportal/internal/config"
	"doctorsportal/internal/logging"
	"doctorsportal/internal/repository"
	"doctorsportal/internal/repository/memstore"
	"doctorsportal/internal/repository/mongostore"
	"doctorsportal/internal/repository/pgstore"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "doctorsportal",
		Short:        "Doctors portal appointment booking server",
		SilenceUsage: true,
	}

	serve := newServeCmd()
	root.RunE = serve.RunE
	root.AddCommand(serve)
	root.AddCommand(newSeedCmd())
	root.AddCommand(newCreateAdminCmd())

	return root
}

// loadConfig reads the environment and installs the global logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.LogLevel, cfg.IsDev())
	return cfg, nil
}

func openStore(ctx context.Context, cfg *config.Config) (*repository.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		return mongostore.Open(ctx, cfg.MongoConnectionURI(), cfg.MongoDatabase, cfg.BookingUniqueIndex)
	case config.DriverPostgres:
		return pgstore.Open(ctx, cfg.DatabaseURL, cfg.BookingUniqueIndex)
	case config.DriverMemory:
		log.Warn().Msg("using in-memory store, data is lost on exit")
		return memstore.New(cfg.BookingUniqueIndex).Repositories(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
