// File: cmd/assemble.go
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xkilldash9x/svscout/api/schemas"
	"github.com/xkilldash9x/svscout/internal/assembly"
	"github.com/xkilldash9x/svscout/internal/observability"
)

// newAssembleCmd creates and configures the `assemble` command. It runs
// the contig assembler alone, without alignment, for inspecting what a
// read cluster assembles into.
func newAssembleCmd() *cobra.Command {
	assembleCmd := &cobra.Command{
		Use:   "assemble",
		Short: "Assembles a read cluster into consensus contigs",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()

			data, err := os.ReadFile(viper.GetString("input"))
			if err != nil {
				return fmt.Errorf("failed to read reads input: %w", err)
			}
			var inputs []schemas.ReadInput
			if err := json.Unmarshal(data, &inputs); err != nil {
				return fmt.Errorf("failed to parse reads input: %w", err)
			}

			c := appConfig.Assembly()
			asm := assembly.New(assembly.Options{
				WordLength:      c.WordLength,
				MaxWordLength:   c.MaxWordLength,
				MinContigLength: c.MinContigLength,
				MinCoverage:     c.MinCoverage,
				MaxError:        c.MaxError,
				MinSeedReads:    c.MinSeedReads,
				MaxIterations:   c.MaxAssemblyIterations,
			}, logger)

			reads := make([]assembly.Read, len(inputs))
			for i, r := range inputs {
				reads[i] = assembly.Read{Name: r.Name, Seq: r.Seq}
			}

			contigs := asm.Assemble(reads)
			out, err := json.MarshalIndent(contigs, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode contigs: %w", err)
			}
			fmt.Println(string(out))
			return nil
		},
	}

	assembleCmd.Flags().StringP("input", "i", "", "Path to a JSON array of reads ({name, seq}).")
	_ = assembleCmd.MarkFlagRequired("input")

	return assembleCmd
}
