package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fxtracker/internal/models"
	"fxtracker/internal/service"
	"fxtracker/internal/store"
)

func newTradeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Record and inspect trades",
	}

	cmd.AddCommand(newTradeRecordCmd(app))
	cmd.AddCommand(newTradeListCmd(app))

	return cmd
}

func newTradeRecordCmd(app *App) *cobra.Command {
	var in service.RecordTradeInput
	var outcome string

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Settle a trade against an account and its growth plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			tracker := requireTracker(app, output)
			if tracker == nil {
				return nil
			}

			in.Outcome = models.Outcome(strings.ToLower(outcome))
			in.Pair = strings.ToUpper(in.Pair)

			trade, err := tracker.RecordTrade(cmd.Context(), in)
			if err != nil {
				output.Error("record trade: %v", err)
				return nil
			}

			if output.IsJSON() {
				return output.JSON(trade)
			}
			output.Success("Trade recorded: %s %s, %.2f lots", trade.Pair, trade.Outcome, trade.LotSize)
			output.Printf("P&L: %s\n", output.FormatPnL(trade.ProfitLoss))
			return nil
		},
	}

	cmd.Flags().StringVar(&in.UserID, "user", "", "owning user ID")
	cmd.Flags().StringVar(&in.AccountID, "account", "", "account ID")
	cmd.Flags().StringVar(&in.Pair, "pair", "", "currency pair, e.g. GBPUSD")
	cmd.Flags().StringVar(&outcome, "outcome", "", "trade outcome: win or loss")
	cmd.Flags().Float64Var(&in.LotSize, "lots", 0, "lot size")
	cmd.Flags().Float64Var(&in.EntryPrice, "entry", 0, "entry price")
	cmd.Flags().Float64Var(&in.ExitPrice, "exit", 0, "exit price")
	cmd.Flags().Float64Var(&in.StopLossPips, "stop", 0, "stop-loss distance in pips")
	cmd.Flags().Float64Var(&in.TakeProfitPips, "target", 0, "take-profit distance in pips")
	cmd.Flags().StringVar(&in.Notes, "notes", "", "free-form notes")
	cmd.MarkFlagRequired("account")
	cmd.MarkFlagRequired("pair")
	cmd.MarkFlagRequired("outcome")
	cmd.MarkFlagRequired("lots")

	return cmd
}

func newTradeListCmd(app *App) *cobra.Command {
	var filter store.TradeFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List settled trades",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			tracker := requireTracker(app, output)
			if tracker == nil {
				return nil
			}

			trades, err := tracker.Trades(cmd.Context(), filter)
			if err != nil {
				output.Error("list trades: %v", err)
				return nil
			}

			if output.IsJSON() {
				return output.JSON(trades)
			}
			if len(trades) == 0 {
				output.Dim("no trades")
				return nil
			}

			table := NewTable(output, "TIME", "PAIR", "OUTCOME", "LOTS", "P&L")
			for _, t := range trades {
				table.AddRow(
					t.TradeTime.Format("02-Jan-2006 15:04"),
					t.Pair,
					string(t.Outcome),
					fmt.Sprintf("%.2f", t.LotSize),
					output.FormatPnL(t.ProfitLoss),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.AccountID, "account", "", "filter by account ID")
	cmd.Flags().StringVar(&filter.Pair, "pair", "", "filter by currency pair")
	cmd.Flags().IntVar(&filter.Limit, "limit", 50, "maximum number of trades")

	return cmd
}
