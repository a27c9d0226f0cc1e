// File: cmd/align.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xkilldash9x/svscout/internal/alignment"
)

// newAlignCmd creates and configures the `align` command, a direct
// interface to the jump aligner for a single query.
func newAlignCmd() *cobra.Command {
	alignCmd := &cobra.Command{
		Use:   "align",
		Short: "Jump-aligns one query sequence across two reference flanks",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			query := viper.GetString("query")
			ref1 := viper.GetString("ref1")
			ref2 := viper.GetString("ref2")
			if query == "" || ref1 == "" || ref2 == "" {
				return fmt.Errorf("--query, --ref1 and --ref2 are all required and non-empty")
			}

			c := appConfig.Aligner()
			aligner := alignment.NewJumpAligner(alignment.Scores[int]{
				Match:    c.Match,
				Mismatch: c.Mismatch,
				Open:     c.Open,
				Extend:   c.Extend,
				Jump:     c.Jump,
			})
			res := aligner.Align(query, ref1, ref2)

			fmt.Printf("score:       %d\n", res.Score)
			fmt.Printf("cigar:       %s\n", res.Path.String())
			fmt.Printf("align_start: %d\n", res.AlignStart)
			fmt.Printf("jump_start:  %d\n", res.JumpStart)
			return nil
		},
	}

	alignCmd.Flags().StringP("query", "q", "", "Query sequence to align.")
	alignCmd.Flags().String("ref1", "", "First reference flank.")
	alignCmd.Flags().String("ref2", "", "Second reference flank.")

	return alignCmd
}
