package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"fxtracker/internal/service"
)

func newAccountCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage trading accounts",
	}

	cmd.AddCommand(newAccountCreateCmd(app))
	cmd.AddCommand(newAccountListCmd(app))
	cmd.AddCommand(newAccountShowCmd(app))

	return cmd
}

func newAccountCreateCmd(app *App) *cobra.Command {
	var in service.CreateAccountInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account with its initial plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			tracker := requireTracker(app, output)
			if tracker == nil {
				return nil
			}

			acct, err := tracker.CreateAccount(cmd.Context(), in)
			if err != nil {
				output.Error("create account: %v", err)
				return nil
			}

			if output.IsJSON() {
				return output.JSON(acct)
			}
			output.Success("Account %s created (%s)", acct.Name, acct.ID)
			output.Printf("Starting capital: $%.2f, profit target: %.1f%%\n", acct.StartingCapital, acct.ProfitTarget)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.UserID, "user", "", "owning user ID")
	cmd.Flags().StringVar(&in.Name, "name", "", "account name")
	cmd.Flags().Float64Var(&in.StartingCapital, "capital", 0, "starting capital")
	cmd.Flags().Float64Var(&in.MaxDailyLoss, "max-daily-loss", 5, "max daily loss percent")
	cmd.Flags().Float64Var(&in.MaxOverallLoss, "max-overall-loss", 10, "max overall loss percent")
	cmd.Flags().Float64Var(&in.ProfitTarget, "profit-target", 10, "profit target percent")
	cmd.Flags().IntVar(&in.HorizonDays, "horizon", 0, "plan horizon in days (default 30)")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("capital")

	return cmd
}

func newAccountListCmd(app *App) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			tracker := requireTracker(app, output)
			if tracker == nil {
				return nil
			}

			accounts, err := tracker.Accounts(cmd.Context(), userID)
			if err != nil {
				output.Error("list accounts: %v", err)
				return nil
			}

			if output.IsJSON() {
				return output.JSON(accounts)
			}
			if len(accounts) == 0 {
				output.Dim("no accounts")
				return nil
			}

			table := NewTable(output, "ID", "NAME", "BALANCE", "P&L", "ACTIVE")
			for _, a := range accounts {
				active := "yes"
				if !a.IsActive {
					active = "no"
				}
				table.AddRow(
					a.ID,
					a.Name,
					fmt.Sprintf("$%.2f", a.CurrentBalance),
					output.FormatPnL(a.CurrentBalance-a.StartingCapital),
					active,
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "filter by user ID")
	return cmd
}

func newAccountShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <account-id>",
		Short: "Show one account with its performance summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			tracker := requireTracker(app, output)
			if tracker == nil {
				return nil
			}

			acct, err := tracker.Account(cmd.Context(), args[0])
			if err != nil {
				output.Error("show account: %v", err)
				return nil
			}
			perf, err := tracker.Performance(cmd.Context(), acct.ID)
			if err != nil {
				output.Error("performance: %v", err)
				return nil
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"account":     acct,
					"performance": perf,
				})
			}

			output.Info("%s (%s)", acct.Name, acct.ID)
			output.Printf("Balance:   $%.2f (started $%.2f)\n", acct.CurrentBalance, acct.StartingCapital)
			output.Printf("Trades:    %d (%d wins / %d losses, %.1f%% win rate)\n",
				perf.TotalTrades, perf.WinningTrades, perf.LosingTrades, perf.WinRate)
			output.Printf("Total P&L: %s\n", output.FormatPnL(perf.TotalPnL))
			return nil
		},
	}
	return cmd
}
