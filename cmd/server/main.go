package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "greenpark",
		Short: "GreenParking reservation server",
		Long: `GreenParking serves the airport parking landing page, the
reservation API and the Stripe webhook, and runs the periodic
reservation jobs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		jobsCmd(),
		whatsAppLinkCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
