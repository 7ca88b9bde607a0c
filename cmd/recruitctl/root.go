package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Dubey-IITB/resume-tracker/internal/bootstrap"
	"github.com/Dubey-IITB/resume-tracker/internal/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const app = "recruitctl"

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:          app,
		Short:        "recruitctl imports resumes, ranks candidates and manages demo users",
		SilenceUsage: true,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is recruitctl.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		log.Fatalf("binding debug flag: %v", err)
	}
	if err := viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json")); err != nil {
		log.Fatalf("binding json flag: %v", err)
	}

	rootCmd.AddCommand(importCmd, rankCmd, userCmd)
}

func initConfig() {
	_ = godotenv.Load()

	viper.SetEnvPrefix("RECRUITCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			log.Fatalf("reading config %s: %v", cfgFile, err)
		}
		return
	}
	viper.AddConfigPath(".")
	viper.SetConfigName(app)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("reading config: %v", err)
		}
	}
}

// withApp builds the shared dependencies for one command run.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *bootstrap.App, log *zap.Logger) error) error {
	zl, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx := cmd.Context()
	a, err := bootstrap.New(ctx, zl)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a, zl)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
