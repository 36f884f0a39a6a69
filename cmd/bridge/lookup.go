package main

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/balancebridge/bridge/config"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <address-or-xpub>",
	Short: "Look up the balance of a bitcoin address or extended key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		svc, _, err := buildService(cfg, false)
		if err != nil {
			return err
		}
		defer func() { _ = svc.Shutdown(context.Background()) }()

		result, err := svc.Lookup(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Confirmed:   %s BTC (%d sat)\n", btc(result.ConfirmedBalance), result.ConfirmedBalance)
		fmt.Printf("Unconfirmed: %s BTC (%d sat)\n", btc(result.UnconfirmedBalance), result.UnconfirmedBalance)
		if len(result.Transactions) > 0 {
			fmt.Printf("Transactions (%d):\n", len(result.Transactions))
			for _, tx := range result.Transactions {
				fmt.Printf("  %s\n", tx.TxID)
			}
		}
		return nil
	},
}

func btc(sats int64) string {
	return decimal.NewFromInt(sats).Shift(-8).String()
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}
