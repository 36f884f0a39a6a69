package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balancebridge/bridge/config"
	"github.com/balancebridge/bridge/core"
	"github.com/balancebridge/bridge/identity"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the client identity and active pairing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		id, err := identity.Load(cfg.DataDir)
		if err != nil {
			return err
		}
		fmt.Printf("Identity: %s\n", id.PublicKey)

		svc, _, err := buildService(cfg, false)
		if err != nil {
			return err
		}

		pairing, err := svc.Pairing(cmd.Context())
		if err != nil {
			if errors.Is(err, core.ErrNotPaired) {
				fmt.Println("Pairing:  none")
				return nil
			}
			return err
		}

		fmt.Printf("Pairing:  %s (%s, v%d)\n", pairing.ServerPublicKey, pairing.App, pairing.Version)
		for _, r := range pairing.Relays {
			fmt.Printf("  relay: %s\n", r)
		}
		if pairing.NodeURL != "" {
			fmt.Printf("  node url: %s\n", pairing.NodeURL)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
