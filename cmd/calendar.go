package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	calendarService "github.com/m04kA/SMC-QuestScheduleService/internal/service/calendar"
)

func newCalendarCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Manage the production calendar",
	}
	cmd.AddCommand(newCalendarImportCmd(configPath))
	return cmd
}

func newCalendarImportCmd(configPath *string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import calendar days from CSV (date,is_holiday,title)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open %s: %w", file, err)
			}
			defer f.Close()

			a, err := newApp(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			svc := calendarService.NewService(a.calendarRepository, a.txManager, a.log)
			result, err := svc.ImportCSV(cmd.Context(), f)
			if err != nil {
				a.log.Error("Calendar import: failed: file=%s, error=%v", file, err)
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported=%d holidays=%d\n", result.Imported, result.Holidays)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "path to CSV file")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
