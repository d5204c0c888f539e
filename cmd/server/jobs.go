package main

import (
	"github.com/spf13/cobra"

	"greenpark/internal/repository"
	"greenpark/internal/service"
)

func jobsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "jobs",
		Short: "Run the reservation maintenance jobs once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()

			db, err := openDB(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer db.Close()

			jobs := service.NewJobService(repository.NewJobRepository(db), nil, logger.Named("jobs"))
			return jobs.RunOnce(cmd.Context(), cfg.PendingReservationTTL, cfg.ToastIdleTimeout)
		},
	}
}
