package main

import (
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-QuestScheduleService/internal/migrate"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply embedded database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			applied, err := migrate.Up(cmd.Context(), a.wrappedDB, a.txManager, a.log)
			if err != nil {
				a.log.Error("Migrate: failed after %d applied: %v", applied, err)
				return err
			}

			a.log.Info("Migrate: done, applied=%d", applied)
			return nil
		},
	}
}
