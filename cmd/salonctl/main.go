package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "salonctl",
		Short: "Salon admin operator tool",
		Long: `salonctl runs content workflow operations against the salon admin database
without going through the HTTP API: monthly owner messages, blog posts,
staff passwords and the MOI catalog mirror.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (e.g. etc/config-dev.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at the configured level instead of warn")

	rootCmd.AddCommand(ownerMessageCmd())
	rootCmd.AddCommand(blogCmd())
	rootCmd.AddCommand(staffCmd())
	rootCmd.AddCommand(catalogCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
