package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/michalnik/money-collector/pkg/config"
)

func main() {
	root := &cobra.Command{
		Use:     "collector",
		Short:   "Fakturoid invoicing workflow CLI",
		Version: "1.0.0",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bare invocation mirrors the classic flow: first run sets up
			// the configuration, every run after that goes straight to
			// the workflow.
			if !config.Exists() {
				if err := runSetup(); err != nil {
					return err
				}
			}
			return runWorkflow()
		},
	}

	root.AddCommand(setupCmd())
	root.AddCommand(runCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
