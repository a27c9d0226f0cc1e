// File: internal/store/store.go
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/xkilldash9x/svscout/api/schemas"
)

// DBPool abstracts pgxpool.Pool so tests can substitute a mock.
type DBPool interface {
	Ping(ctx context.Context) error
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// Store persists discovery results into PostgreSQL.
type Store struct {
	pool DBPool
	log  *zap.Logger
}

// New creates a store and verifies the connection.
func New(ctx context.Context, pool DBPool, logger *zap.Logger) (*Store, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{
		pool: pool,
		log:  logger.Named("store"),
	}, nil
}

// PersistRun writes all findings of one run in a single transaction.
func (s *Store) PersistRun(ctx context.Context, envelope *schemas.ResultEnvelope) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		// Rollback after a successful commit returns ErrTxClosed; that is
		// not worth logging.
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			s.log.Error("Failed to rollback transaction", zap.Error(rollbackErr))
		}
	}()

	if len(envelope.Findings) > 0 {
		if err := s.persistFindings(ctx, tx, envelope.RunID, envelope.Findings); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) persistFindings(ctx context.Context, tx pgx.Tx, runID string, findings []schemas.BreakpointFinding) error {
	rows := make([][]interface{}, len(findings))
	for i, f := range findings {
		rows[i] = []interface{}{
			f.ID, runID, f.ClusterID,
			f.ContigSeq, f.SupportReads,
			f.Score, f.Cigar,
			f.AlignStart, f.JumpStart,
			f.ObservedAt.UTC(),
		}
	}

	copyCount, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"sv_findings"},
		[]string{"id", "run_id", "cluster_id", "contig_seq", "support_reads", "score", "cigar", "align_start", "jump_start", "observed_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to copy findings: %w", err)
	}
	if int(copyCount) != len(findings) {
		return fmt.Errorf("mismatch in copied findings count: expected %d, got %d", len(findings), copyCount)
	}

	return nil
}

// PersistLocusArchive upserts a serialized locus graph keyed by its locus
// index within the run.
func (s *Store) PersistLocusArchive(ctx context.Context, runID string, locusIndex uint32, archive []byte) error {
	sql := `
        INSERT INTO sv_loci (run_id, locus_index, archive, updated_at)
        VALUES ($1, $2, $3, NOW())
        ON CONFLICT (run_id, locus_index) DO UPDATE SET
            archive = EXCLUDED.archive,
            updated_at = EXCLUDED.updated_at;
    `
	if _, err := s.pool.Exec(ctx, sql, runID, locusIndex, archive); err != nil {
		return fmt.Errorf("failed to upsert locus archive: %w", err)
	}
	return nil
}

// GetFindingsByRunID returns a run's findings ordered by observation time.
func (s *Store) GetFindingsByRunID(ctx context.Context, runID string) ([]schemas.BreakpointFinding, error) {
	query := `
        SELECT id, cluster_id, contig_seq, support_reads, score, cigar, align_start, jump_start, observed_at
        FROM sv_findings
        WHERE run_id = $1
        ORDER BY observed_at ASC;
    `
	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query findings: %w", err)
	}
	defer rows.Close()

	var findings []schemas.BreakpointFinding
	for rows.Next() {
		var f schemas.BreakpointFinding
		err := rows.Scan(
			&f.ID, &f.ClusterID, &f.ContigSeq, &f.SupportReads,
			&f.Score, &f.Cigar, &f.AlignStart, &f.JumpStart,
			&f.ObservedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan finding row: %w", err)
		}
		findings = append(findings, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}

	return findings, nil
}
