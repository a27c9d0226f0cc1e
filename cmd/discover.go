// File: cmd/discover.go
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/svscout/api/schemas"
	"github.com/xkilldash9x/svscout/internal/observability"
	"github.com/xkilldash9x/svscout/internal/pipeline"
	"github.com/xkilldash9x/svscout/internal/store"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// newDiscoverCmd creates and configures the `discover` command.
func newDiscoverCmd() *cobra.Command {
	discoverCmd := &cobra.Command{
		Use:   "discover",
		Short: "Assembles read clusters and aligns contigs across candidate breakends",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags so command-line values override config and env.
			if err := viper.BindPFlag("engine.worker_concurrency", cmd.Flags().Lookup("concurrency")); err != nil {
				return err
			}
			return viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			if c := viper.GetInt("engine.worker_concurrency"); c > 0 {
				appConfig.SetEngineWorkerConcurrency(c)
			}

			inputPath := viper.GetString("input")
			outputPath := viper.GetString("output")

			input, err := readDiscoverInput(inputPath)
			if err != nil {
				return err
			}

			envelope, err := pipeline.New(appConfig, logger).Run(ctx, input)
			if err != nil {
				return err
			}

			if dsn := appConfig.Database().DSN; dsn != "" {
				if err := persistRun(cmd, dsn, envelope, logger); err != nil {
					return err
				}
			}

			if err := writeEnvelope(outputPath, envelope); err != nil {
				return err
			}

			fmt.Printf("\nDiscovery complete. Run ID: %s (%d findings)\n", envelope.RunID, len(envelope.Findings))
			return nil
		},
	}

	discoverCmd.Flags().StringP("input", "i", "", "Path to the discovery input JSON. '-' or empty reads stdin.")
	discoverCmd.Flags().StringP("output", "o", "", "Output file for the findings JSON. If unset, findings go to stdout.")
	discoverCmd.Flags().IntP("concurrency", "j", 0, "Number of concurrent cluster workers. (Overrides config/env)")

	return discoverCmd
}

func readDiscoverInput(path string) (*schemas.DiscoverInput, error) {
	var data []byte
	var err error
	if path == "" || path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read discovery input: %w", err)
	}

	var input schemas.DiscoverInput
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("failed to parse discovery input: %w", err)
	}
	return &input, nil
}

func writeEnvelope(path string, envelope *schemas.ResultEnvelope) error {
	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode findings: %w", err)
	}
	if path == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write findings: %w", err)
	}
	return nil
}

func persistRun(cmd *cobra.Command, dsn string, envelope *schemas.ResultEnvelope, logger *zap.Logger) error {
	ctx := cmd.Context()

	dbPool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbPool.Close()

	dbStore, err := store.New(ctx, dbPool, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database store: %w", err)
	}
	if err := dbStore.PersistRun(ctx, envelope); err != nil {
		return fmt.Errorf("failed to persist run %s: %w", envelope.RunID, err)
	}

	logger.Info("Run persisted", zap.String("run_id", envelope.RunID))
	return nil
}
