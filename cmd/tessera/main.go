package main

import (
	"os"

	"github.com/spf13/cobra"

	"tessera/internal/interfaces/cli/migrate"
	"tessera/internal/interfaces/cli/server"
	"tessera/internal/interfaces/cli/sweep"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tessera",
		Short: "Tessera - multi-tenant SaaS administration backend",
		Long:  `Tessera is the administration backend for a multi-tenant SaaS platform, covering organizations, memberships, subscriptions, CRM and finance.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		sweep.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
