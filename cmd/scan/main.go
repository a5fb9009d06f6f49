// Command scan runs token and free-text risk analysis from the terminal,
// printing the same JSON payloads the HTTP API serves.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tokensentry/tokensentry/internal/adapters"
	"github.com/tokensentry/tokensentry/internal/config"
	"github.com/tokensentry/tokensentry/internal/scoring"
	"github.com/tokensentry/tokensentry/internal/snapshot"
	"github.com/tokensentry/tokensentry/internal/textscan"
)

func main() {
	// Quiet structured logs on stderr so stdout stays pure JSON.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	root := &cobra.Command{
		Use:          "scan",
		Short:        "Token risk scanner",
		Long:         "Scores blockchain tokens and free-text queries for risk signals.",
		SilenceUsage: true,
	}

	root.AddCommand(newTokenCmd())
	root.AddCommand(newTextCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newTokenCmd() *cobra.Command {
	var chainFlag string
	var addressFlag string
	var timeoutFlag time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Scan a token contract on a supported chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, err := snapshot.ParseChain(chainFlag)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			explorer := adapters.NewEtherscanClient(cfg.EtherscanAPIKey, nil)
			dexScreener := adapters.NewDexScreenerClient(nil)
			builder := snapshot.NewBuilder(explorer, dexScreener)
			engine := scoring.NewEngine(builder, cfg.Weights)

			ctx, cancel := context.WithTimeout(cmd.Context(), timeoutFlag)
			defer cancel()

			result := engine.ScoreToken(ctx, chain, addressFlag)
			return printJSON(result)
		},
	}

	cmd.Flags().StringVar(&chainFlag, "chain", "ethereum", "chain to scan (ethereum, bsc, base)")
	cmd.Flags().StringVar(&addressFlag, "address", "", "token contract address")
	cmd.Flags().DurationVar(&timeoutFlag, "timeout", 30*time.Second, "scan timeout")
	_ = cmd.MarkFlagRequired("address")

	return cmd
}

func newTextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "text <query>",
		Short: "Analyze a free-text query with keyword heuristics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result := textscan.Evaluate(args[0])
			return printJSON(result)
		},
	}
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
