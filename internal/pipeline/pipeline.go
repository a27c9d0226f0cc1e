// File: internal/pipeline/pipeline.go
//
// The discovery pipeline ties the analytical core together: each input
// read cluster is assembled into contigs, every contig is jump-aligned
// against the cluster's two breakend flanks, and the best-scoring
// alignment per contig becomes a breakpoint finding.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/svscout/api/schemas"
	"github.com/xkilldash9x/svscout/internal/alignment"
	"github.com/xkilldash9x/svscout/internal/assembly"
	"github.com/xkilldash9x/svscout/internal/config"
)

// Pipeline runs breakpoint discovery over read clusters.
type Pipeline struct {
	cfg config.Interface
	log *zap.Logger
}

// New builds a pipeline from configuration.
func New(cfg config.Interface, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		cfg: cfg,
		log: logger.Named("pipeline"),
	}
}

// Run processes every cluster of the input, bounded by the configured
// worker concurrency, and returns the findings in input order. Clusters
// that assemble nothing or align nothing simply contribute no findings.
func (p *Pipeline) Run(ctx context.Context, input *schemas.DiscoverInput) (*schemas.ResultEnvelope, error) {
	if err := validateInput(input); err != nil {
		return nil, fmt.Errorf("invalid discovery input: %w", err)
	}

	runID := uuid.NewString()
	p.log.Info("Starting discovery run",
		zap.String("run_id", runID),
		zap.Int("clusters", len(input.Clusters)),
		zap.Int("workers", p.cfg.Engine().WorkerConcurrency))

	perCluster := make([][]schemas.BreakpointFinding, len(input.Clusters))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Engine().WorkerConcurrency)

	for i := range input.Clusters {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			perCluster[i] = p.processCluster(&input.Clusters[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("discovery run %s aborted: %w", runID, err)
	}

	envelope := &schemas.ResultEnvelope{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
	}
	for _, findings := range perCluster {
		envelope.Findings = append(envelope.Findings, findings...)
	}

	p.log.Info("Discovery run finished",
		zap.String("run_id", runID),
		zap.Int("findings", len(envelope.Findings)))
	return envelope, nil
}

// processCluster assembles and aligns one cluster. Assembler and aligner
// carry per-call scratch, so each invocation builds its own.
func (p *Pipeline) processCluster(cluster *schemas.ClusterInput) []schemas.BreakpointFinding {
	log := p.log.With(zap.String("cluster_id", cluster.ID))

	asm := assembly.New(assemblerOptions(p.cfg.Assembly()), p.log)
	reads := make([]assembly.Read, len(cluster.Reads))
	for i, r := range cluster.Reads {
		reads[i] = assembly.Read{Name: r.Name, Seq: r.Seq}
	}

	contigs := asm.Assemble(reads)
	if len(contigs) == 0 {
		log.Debug("No contigs assembled")
		return nil
	}

	aligner := alignment.NewJumpAligner(alignerScores(p.cfg.Aligner()))
	var findings []schemas.BreakpointFinding
	for _, contig := range contigs {
		res := aligner.Align(contig.Seq, cluster.Ref1, cluster.Ref2)
		if res.Score <= 0 {
			log.Debug("Discarding non-positive alignment",
				zap.Int("score", res.Score),
				zap.Int("contig_length", len(contig.Seq)))
			continue
		}
		findings = append(findings, schemas.BreakpointFinding{
			ID:           uuid.NewString(),
			ClusterID:    cluster.ID,
			ContigSeq:    contig.Seq,
			SupportReads: contig.SupportReads,
			Score:        res.Score,
			Cigar:        res.Path.String(),
			AlignStart:   res.AlignStart,
			JumpStart:    res.JumpStart,
			ObservedAt:   time.Now().UTC(),
		})
	}

	log.Debug("Cluster processed",
		zap.Int("contigs", len(contigs)),
		zap.Int("findings", len(findings)))
	return findings
}

func assemblerOptions(c config.AssemblyConfig) assembly.Options {
	return assembly.Options{
		WordLength:      c.WordLength,
		MaxWordLength:   c.MaxWordLength,
		MinContigLength: c.MinContigLength,
		MinCoverage:     c.MinCoverage,
		MaxError:        c.MaxError,
		MinSeedReads:    c.MinSeedReads,
		MaxIterations:   c.MaxAssemblyIterations,
	}
}

func alignerScores(c config.AlignerConfig) alignment.Scores[int] {
	return alignment.Scores[int]{
		Match:    c.Match,
		Mismatch: c.Mismatch,
		Open:     c.Open,
		Extend:   c.Extend,
		Jump:     c.Jump,
	}
}

func validateInput(input *schemas.DiscoverInput) error {
	if input == nil {
		return fmt.Errorf("input is nil")
	}
	seen := make(map[string]struct{}, len(input.Clusters))
	for i := range input.Clusters {
		c := &input.Clusters[i]
		if c.ID == "" {
			return fmt.Errorf("cluster %d has no id", i)
		}
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("duplicate cluster id %q", c.ID)
		}
		seen[c.ID] = struct{}{}
		if c.Ref1 == "" || c.Ref2 == "" {
			return fmt.Errorf("cluster %q is missing a reference flank", c.ID)
		}
		if len(c.Reads) == 0 {
			return fmt.Errorf("cluster %q has no reads", c.ID)
		}
	}
	return nil
}
