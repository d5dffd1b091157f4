package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Dan9191/transfraud/internal/app"
	"github.com/Dan9191/transfraud/internal/config"
	"github.com/Dan9191/transfraud/internal/models"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "transfraudctl",
		Short:         "Seed the card dataset and emit synthetic transactions",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(initializeCmd())
	rootCmd.AddCommand(reinitializeCmd())
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(statusCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// withApp builds the application for one command and closes it afterwards
func withApp(cmd *cobra.Command, run func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}

	a, err := app.New(cmd.Context(), cfg, app.NewLogger(cfg.LogLevel))
	if err != nil {
		return err
	}
	defer a.Close()

	return run(cmd.Context(), a)
}

func initializeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "initialize",
		Short: "Seed customers and cards if the store is empty",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Controller.Initialize(ctx); err != nil {
					return err
				}
				return printStats(ctx, a)
			})
		},
	}
}

func reinitializeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reinitialize",
		Short: "Delete all data and seed a fresh dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Controller.Reinitialize(ctx); err != nil {
					return err
				}
				return printStats(ctx, a)
			})
		},
	}
}

func generateCmd() *cobra.Command {
	var (
		count   int
		publish bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate transactions against the active card pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Controller.Initialize(ctx); err != nil {
					return err
				}

				if publish {
					n, err := a.Synthesizer.GenerateAndPublishMany(ctx, count)
					if err != nil {
						return err
					}
					fmt.Printf("Published %d of %d transactions\n", n, count)
					return nil
				}

				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				for i := 0; i < count; i++ {
					rec, err := a.Synthesizer.GenerateRandomTransaction(ctx)
					if err != nil {
						return err
					}
					if err := enc.Encode(rec); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 10, "Number of transactions")
	cmd.Flags().BoolVar(&publish, "publish", true, "Publish to Kafka; false prints the records instead")

	return cmd
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show dataset readiness and counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				stats, err := a.Controller.Stats(ctx)
				if err != nil {
					return err
				}

				// Readiness as a fresh process would report it after initializing
				status := models.StatusNotInitialized
				switch {
				case stats.ActiveCards > 0:
					status = models.StatusReady
				case stats.TotalCustomers > 0:
					status = models.StatusInitializedButNoData
				}
				fmt.Printf("Status:       %s\n", status)
				return printStats(ctx, a)
			})
		},
	}
}

func printStats(ctx context.Context, a *app.App) error {
	stats, err := a.Controller.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Customers:    %d\n", stats.TotalCustomers)
	fmt.Printf("Active cards: %d\n", stats.ActiveCards)
	fmt.Printf("Transactions: %d\n", stats.TotalTransactions)
	return nil
}
