package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"fxtracker/internal/service"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Inspect and manage growth plans",
	}

	cmd.AddCommand(newPlanShowCmd(app))
	cmd.AddCommand(newPlanStartCmd(app))
	cmd.AddCommand(newPlanAnalyzeCmd(app))
	cmd.AddCommand(newPlanTodayCmd(app))

	return cmd
}

func newPlanShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <account-id>",
		Short: "Show the active growth plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			tracker := requireTracker(app, output)
			if tracker == nil {
				return nil
			}

			plan, err := tracker.GrowthPlan(cmd.Context(), args[0])
			if err != nil {
				output.Error("show plan: %v", err)
				return nil
			}

			if output.IsJSON() {
				return output.JSON(plan)
			}

			status := "active"
			if plan.IsCompleted {
				status = "completed"
			}
			output.Info("Growth plan %s (%s)", plan.ID, status)
			output.Printf("Target:      $%.2f over %d trades\n", plan.TargetAmount, plan.TargetTrades)
			output.Printf("Progress:    %d trades completed, %d days remaining\n", plan.TotalTradesCompleted, plan.RemainingDays)
			output.Printf("Risk:        %.2f%% per trade, $%.2f daily limit ($%.2f used)\n",
				plan.RiskPerTrade, plan.DailyRiskLimit, plan.DailyLossUsed)
			output.Printf("Day slot:    %d\n", plan.CurrentTrade)
			return nil
		},
	}
	return cmd
}

func newPlanStartCmd(app *App) *cobra.Command {
	var in service.StartGrowthPlanInput

	cmd := &cobra.Command{
		Use:   "start <account-id>",
		Short: "Start a new growth plan for an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			tracker := requireTracker(app, output)
			if tracker == nil {
				return nil
			}
			in.AccountID = args[0]

			plan, err := tracker.StartGrowthPlan(cmd.Context(), in)
			if err != nil {
				output.Error("start plan: %v", err)
				return nil
			}

			if output.IsJSON() {
				return output.JSON(plan)
			}
			output.Success("Growth plan started: $%.2f target over %d days", plan.TargetAmount, in.HorizonDays)
			return nil
		},
	}

	cmd.Flags().Float64Var(&in.TargetAmount, "target", 0, "target balance")
	cmd.Flags().IntVar(&in.HorizonDays, "days", 30, "plan horizon in days")
	cmd.MarkFlagRequired("target")

	return cmd
}

func newPlanAnalyzeCmd(app *App) *cobra.Command {
	var targetAmount float64
	var horizonDays int

	cmd := &cobra.Command{
		Use:   "analyze <account-id>",
		Short: "Analyze a prospective growth target without saving it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			tracker := requireTracker(app, output)
			if tracker == nil {
				return nil
			}

			analysis, err := tracker.AnalyzeGrowthPlan(cmd.Context(), args[0], targetAmount, horizonDays)
			if err != nil {
				output.Error("analyze plan: %v", err)
				return nil
			}

			if output.IsJSON() {
				return output.JSON(analysis)
			}

			output.Info("Required daily return: %.2f%%", analysis.RequiredDailyReturn)
			output.Printf("Optimal risk per trade: %.2f%%\n", analysis.OptimalRiskPerTrade)
			output.Printf("Progress to target: %.1f%%\n\n", analysis.CurrentProgress)

			table := NewTable(output, "PAIR", "LOTS", "RISK $", "PROFIT $", "STOP", "TARGET", "CONF")
			for _, r := range analysis.RecommendedTrades {
				table.AddRow(
					r.Pair,
					fmt.Sprintf("%.2f", r.LotSize),
					fmt.Sprintf("%.2f", r.RiskAmount),
					fmt.Sprintf("%.2f", r.PotentialProfit),
					fmt.Sprintf("%.0f", r.StopLossPips),
					fmt.Sprintf("%.0f", r.TakeProfitPips),
					fmt.Sprintf("%.0f%%", r.Confidence*100),
				)
			}
			table.Render()
			output.Dim("%s", analysis.AdjustmentReason)
			return nil
		},
	}

	cmd.Flags().Float64Var(&targetAmount, "target", 0, "target balance")
	cmd.Flags().IntVar(&horizonDays, "days", 30, "plan horizon in days")
	cmd.MarkFlagRequired("target")

	return cmd
}

func newPlanTodayCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "today <account-id>",
		Short: "Show today's trade slots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			tracker := requireTracker(app, output)
			if tracker == nil {
				return nil
			}

			slots, err := tracker.DailyPlans(cmd.Context(), args[0], time.Now())
			if err != nil {
				output.Error("daily plans: %v", err)
				return nil
			}

			if output.IsJSON() {
				return output.JSON(slots)
			}
			if len(slots) == 0 {
				output.Dim("no slots for today")
				return nil
			}

			table := NewTable(output, "SLOT", "PAIR", "RISK %", "LOTS", "STOP", "TARGET", "EXPECTED", "DONE")
			for _, s := range slots {
				done := ""
				if s.IsExecuted {
					done = "x"
					if s.ActualResult != nil {
						done = output.FormatPnL(*s.ActualResult)
					}
				}
				table.AddRow(
					fmt.Sprintf("%d", s.SlotIndex),
					s.Pair,
					fmt.Sprintf("%.0f", s.AllocatedRisk),
					fmt.Sprintf("%.2f", s.LotSize),
					fmt.Sprintf("%.0f", s.StopLossPips),
					fmt.Sprintf("%.0f", s.TakeProfitPips),
					fmt.Sprintf("$%.2f", s.ExpectedProfit),
					done,
				)
			}
			table.Render()
			return nil
		},
	}
	return cmd
}
