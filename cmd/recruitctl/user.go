package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dubey-IITB/resume-tracker/internal/bootstrap"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage demo login users",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a user, prompting for the password",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, runUserAdd)
	},
}

func init() {
	userAddCmd.Flags().String("email", "", "login email")
	userAddCmd.Flags().String("name", "", "full name")
	_ = viper.BindPFlag("user.email", userAddCmd.Flags().Lookup("email"))
	_ = viper.BindPFlag("user.name", userAddCmd.Flags().Lookup("name"))
	userCmd.AddCommand(userAddCmd)
}

var passwordPrompt = promptui.Prompt{
	Label: "Password",
	Mask:  '*',
	Validate: func(s string) error {
		if len(s) < 8 {
			return errors.New("password must be at least 8 characters")
		}
		return nil
	},
}

func runUserAdd(ctx context.Context, a *bootstrap.App, log *zap.Logger) error {
	email := viper.GetString("user.email")
	if email == "" {
		return fmt.Errorf("--email is required")
	}
	password, err := passwordPrompt.Run()
	if err != nil {
		return fmt.Errorf("password prompt: %w", err)
	}
	user, err := a.Auth.CreateUser(ctx, email, viper.GetString("user.name"), password)
	if err != nil {
		return err
	}
	log.Info("user created", zap.Uint("id", user.ID), zap.String("email", user.Email))
	return nil
}
