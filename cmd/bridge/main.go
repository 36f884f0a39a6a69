package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bridge",
	Short: "BalanceBridge client for a paired home-server node",
	Long: `bridge pairs with a home-server node over public Nostr relays and
performs bitcoin balance lookups against it. No direct socket or HTTP
endpoint is ever exposed between the two peers; the relay network is the
only transport.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
