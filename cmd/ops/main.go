package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"mobilepay_ledger/internal/app"
	"mobilepay_ledger/internal/infrastructure/config"
	"mobilepay_ledger/internal/infrastructure/logger"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "ledger-ops",
		Short:   "Operator commands for the mobile money ledger",
		Version: Version,
	}

	rootCmd.PersistentFlags().String("log-level", "", "Override LOG_LEVEL")

	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(recheckCmd())
	rootCmd.AddCommand(sweepCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withContainer wires the same stack as the API. The memory backend is
// process-local, so these commands are only useful against DynamoDB.
func withContainer(cmd *cobra.Command, fn func(ctx context.Context, c *app.Container) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	level, _ := cmd.Flags().GetString("log-level")
	if level == "" {
		level = cfg.LogLevel
	}
	log, err := logger.New(level)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck
	if cfg.StorageBackend == config.StorageBackendMemory {
		log.Warn("memory storage is empty in a fresh process")
	}

	ctx := cmd.Context()
	c, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Error("close", zap.Error(err))
		}
	}()
	return fn(ctx, c)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [intentId]",
		Short: "Print a payment intent and its fallback job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
				intent, err := c.Intents.GetByID(ctx, args[0])
				if err != nil {
					return err
				}
				if intent.ID == "" {
					return fmt.Errorf("intent %s not found", args[0])
				}
				job, err := c.Jobs.Get(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd, map[string]any{"intent": intent, "job": job})
			})
		},
	}
}

func recheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recheck [intentId]",
		Short: "Run one fallback poll for an intent, applying it when paid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
				outcome, err := c.Reconciler.PollOnce(ctx, args[0])
				if err != nil {
					return fmt.Errorf("recheck %s: %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], outcome)
				return nil
			})
		},
	}
}

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run every due fallback job once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
				ran, err := c.Runner.Sweep(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ran %d fallback job(s)\n", ran)
				return nil
			})
		},
	}
}
