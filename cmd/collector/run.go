package main

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/michalnik/money-collector/pkg/config"
	"github.com/michalnik/money-collector/pkg/fakturoid"
	"github.com/michalnik/money-collector/pkg/mail"
	"github.com/michalnik/money-collector/pkg/prompt"
	"github.com/michalnik/money-collector/pkg/workflow"
)

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the invoicing workflow",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflow()
		},
	}
}

func runWorkflow() error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()
	logger = logger.With(zap.String("run_id", uuid.NewString()))

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	client := fakturoid.NewClientWithLogger(&cfg.Fakturoid, logger)
	dispatcher := mail.NewDispatcher(&cfg.Email, logger)
	prompter := prompt.NewTerminal(os.Stdin, os.Stdout)

	wf := workflow.New(client, dispatcher, prompter, &cfg.Email, logger, os.Stdout)
	return wf.Run(context.Background())
}
