package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
	generateScheduleUC "github.com/m04kA/SMC-QuestScheduleService/internal/usecase/generate_schedule"
)

func newGenerateCmd(configPath *string) *cobra.Command {
	var (
		questID int64
		from    string
		to      string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate slots for one quest or all active quests",
		Long: "Materializes slots from weekly templates, date overrides and pricing rules.\n" +
			"Without --from/--to the window is today .. today + booking_days_ahead.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := &generateScheduleUC.Request{}
			if questID > 0 {
				req.QuestID = &questID
			}
			if from != "" {
				d, err := domain.ParseDate(from)
				if err != nil {
					return fmt.Errorf("invalid --from %q: %w", from, err)
				}
				req.From = &d
			}
			if to != "" {
				d, err := domain.ParseDate(to)
				if err != nil {
					return fmt.Errorf("invalid --to %q: %w", to, err)
				}
				req.To = &d
			}

			a, err := newApp(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.generateScheduleUseCase().Execute(cmd.Context(), req)
			if err != nil {
				a.log.Error("Generate: failed: %v", err)
				return err
			}

			for _, q := range result.Quests {
				fmt.Fprintf(cmd.OutOrStdout(), "quest %d: created=%d updated=%d removed=%d skipped_booked=%d blocked=%d\n",
					q.QuestID, q.Created, q.Updated, q.Removed, q.SkippedBooked, q.Blocked)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s .. %s: created=%d total\n",
				domain.FormatDate(result.From), domain.FormatDate(result.To), result.Total.Created)
			return nil
		},
	}

	cmd.Flags().Int64Var(&questID, "quest", 0, "quest ID (all active quests when omitted)")
	cmd.Flags().StringVar(&from, "from", "", "first date, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last date, YYYY-MM-DD")

	return cmd
}
