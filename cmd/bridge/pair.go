package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/balancebridge/bridge/config"
)

var pairCmd = &cobra.Command{
	Use:   "pair <payload.json | ->",
	Short: "Install a pairing payload (use - to read from stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		var payload []byte
		if args[0] == "-" {
			payload, err = io.ReadAll(os.Stdin)
		} else {
			payload, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to read pairing payload: %w", err)
		}

		svc, _, err := buildService(cfg, false)
		if err != nil {
			return err
		}

		pairing, err := svc.Pair(cmd.Context(), payload)
		if err != nil {
			return err
		}

		fmt.Printf("Paired with %s (%s)\n", pairing.ServerPublicKey, pairing.App)
		for _, r := range pairing.Relays {
			fmt.Printf("  relay: %s\n", r)
		}
		return nil
	},
}

var unpairCmd = &cobra.Command{
	Use:   "unpair",
	Short: "Remove the active pairing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		svc, _, err := buildService(cfg, false)
		if err != nil {
			return err
		}

		if err := svc.Unpair(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Unpaired")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pairCmd)
	rootCmd.AddCommand(unpairCmd)
}
