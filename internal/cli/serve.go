package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tabulr/timetabler/internal/config"
	"github.com/tabulr/timetabler/internal/web"
	"github.com/tabulr/timetabler/pkg/logger"
)

// NewServeCmd starts the HTTP scheduling service.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the scheduling HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			log, err := logger.New(cfg.Env, cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			srv, err := web.NewServer(cfg, log)
			if err != nil {
				return err
			}

			log.Info("starting server", zap.Int("port", cfg.Port))
			return srv.Run()
		},
	}
}
