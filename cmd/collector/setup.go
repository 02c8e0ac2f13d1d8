package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/michalnik/money-collector/pkg/config"
	"github.com/michalnik/money-collector/pkg/prompt"
)

func setupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Interactively create the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup()
		},
	}
}

func runSetup() error {
	t := prompt.NewTerminal(os.Stdin, os.Stdout)
	cfg := &config.Config{}

	email, err := askValidated(t, "Enter your Fakturoid email:", func(s string) error {
		if !config.ValidEmail(s) {
			return fmt.Errorf("invalid email address")
		}
		return nil
	})
	if err != nil {
		return err
	}
	cfg.Fakturoid.Email = email

	if cfg.Fakturoid.Account, err = askNonEmpty(t, "Enter your Fakturoid account name:"); err != nil {
		return err
	}

	appName, err := askValidated(t, "Enter your Fakturoid application name:", func(s string) error {
		name := config.ToCamelCase(s)
		if name == "" {
			return fmt.Errorf("application name cannot be empty")
		}
		if len(name) > config.MaxApplicationNameLength {
			return fmt.Errorf("maximum length of application name is %d characters", config.MaxApplicationNameLength)
		}
		return nil
	})
	if err != nil {
		return err
	}
	cfg.Fakturoid.ApplicationName = config.ToCamelCase(appName)

	if cfg.Fakturoid.ClientID, err = askNonEmpty(t, "Enter your Fakturoid client ID:"); err != nil {
		return err
	}
	if cfg.Fakturoid.ClientSecret, err = askNonEmpty(t, "Enter your Fakturoid client secret:"); err != nil {
		return err
	}
	cfg.Fakturoid.BaseURL = config.DefaultBaseURL

	if cfg.Email.SMTPUser, err = askNonEmpty(t, "Enter your email SMTP user:"); err != nil {
		return err
	}
	if cfg.Email.SMTPPassword, err = askNonEmpty(t, "Enter your email SMTP password:"); err != nil {
		return err
	}
	if cfg.Email.SMTPServer, err = askNonEmpty(t, "Enter your email SMTP server:"); err != nil {
		return err
	}
	if cfg.Email.SMTPPort, err = t.IntInRange("Enter your email SMTP server port", 1, 65535); err != nil {
		return err
	}

	if err := config.Save(cfg); err != nil {
		return err
	}
	fmt.Printf("Configuration written to %s\n", config.Path())
	return nil
}

func askNonEmpty(t *prompt.Terminal, message string) (string, error) {
	return askValidated(t, message, func(s string) error {
		if s == "" {
			return fmt.Errorf("value cannot be empty")
		}
		return nil
	})
}

func askValidated(t *prompt.Terminal, message string, validate func(string) error) (string, error) {
	for {
		value, err := t.Input(message, "")
		if err != nil {
			return "", err
		}
		if err := validate(value); err != nil {
			fmt.Println(err)
			continue
		}
		return value, nil
	}
}
