// File: internal/pipeline/pipeline_test.go
package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/xkilldash9x/svscout/api/schemas"
	"github.com/xkilldash9x/svscout/internal/config"
)

// consensus is the sequence the test reads reassemble; its first half is
// ref1 and its second half ref2, so the contig aligns across the jump.
const consensus = "ACGGTTCAATGGCTTAGCCA"

func testConfig() *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.EngineC.WorkerConcurrency = 2
	cfg.AssemblyC.WordLength = 5
	cfg.AssemblyC.MaxWordLength = 9
	cfg.AssemblyC.MinContigLength = 15
	return cfg
}

func spanningCluster(id string) schemas.ClusterInput {
	return schemas.ClusterInput{
		ID: id,
		Reads: []schemas.ReadInput{
			{Name: id + "-r1", Seq: consensus[0:12]},
			{Name: id + "-r2", Seq: consensus[6:20]},
		},
		Ref1: consensus[0:10],
		Ref2: consensus[10:20],
	}
}

func TestRunDiscoversBreakpoint(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := New(testConfig(), zap.NewNop())
	input := &schemas.DiscoverInput{Clusters: []schemas.ClusterInput{spanningCluster("c1")}}

	envelope, err := p.Run(context.Background(), input)
	require.NoError(t, err)
	require.NotEmpty(t, envelope.RunID)
	require.Len(t, envelope.Findings, 1)

	f := envelope.Findings[0]
	assert.Equal(t, "c1", f.ClusterID)
	assert.Equal(t, consensus, f.ContigSeq)
	assert.Equal(t, 2, f.SupportReads)
	// 20 matched bases at +1 minus the jump penalty of 10.
	assert.Equal(t, 10, f.Score)
	assert.Equal(t, "10M0J10M", f.Cigar)
	assert.Equal(t, 0, f.AlignStart)
	assert.Equal(t, 10, f.JumpStart)
	assert.NotEmpty(t, f.ID)
	assert.False(t, f.ObservedAt.IsZero())
}

func TestRunKeepsInputOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := New(testConfig(), zap.NewNop())
	input := &schemas.DiscoverInput{Clusters: []schemas.ClusterInput{
		spanningCluster("c1"),
		spanningCluster("c2"),
		spanningCluster("c3"),
		spanningCluster("c4"),
	}}

	envelope, err := p.Run(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, envelope.Findings, 4)
	for i, want := range []string{"c1", "c2", "c3", "c4"} {
		assert.Equal(t, want, envelope.Findings[i].ClusterID)
	}
}

func TestRunSkipsUnassemblableClusters(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := New(testConfig(), zap.NewNop())
	input := &schemas.DiscoverInput{Clusters: []schemas.ClusterInput{
		{
			ID:    "lonely",
			Reads: []schemas.ReadInput{{Name: "r1", Seq: consensus}},
			Ref1:  consensus[0:10],
			Ref2:  consensus[10:20],
		},
		spanningCluster("good"),
	}}

	envelope, err := p.Run(context.Background(), input)
	require.NoError(t, err)
	// The single-read cluster is below the seed-read floor and contributes
	// nothing; the run still succeeds.
	require.Len(t, envelope.Findings, 1)
	assert.Equal(t, "good", envelope.Findings[0].ClusterID)
}

func TestRunRejectsInvalidInput(t *testing.T) {
	p := New(testConfig(), zap.NewNop())
	ctx := context.Background()

	cases := []struct {
		name  string
		input *schemas.DiscoverInput
	}{
		{"nil input", nil},
		{"missing cluster id", &schemas.DiscoverInput{Clusters: []schemas.ClusterInput{
			{Reads: []schemas.ReadInput{{Name: "r", Seq: "ACGT"}}, Ref1: "A", Ref2: "C"},
		}}},
		{"duplicate cluster id", &schemas.DiscoverInput{Clusters: []schemas.ClusterInput{
			spanningCluster("dup"),
			spanningCluster("dup"),
		}}},
		{"missing flank", &schemas.DiscoverInput{Clusters: []schemas.ClusterInput{
			{ID: "c", Reads: []schemas.ReadInput{{Name: "r", Seq: "ACGT"}}, Ref1: "A"},
		}}},
		{"no reads", &schemas.DiscoverInput{Clusters: []schemas.ClusterInput{
			{ID: "c", Ref1: "A", Ref2: "C"},
		}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := p.Run(ctx, tc.input)
			assert.Error(t, err)
		})
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := New(testConfig(), zap.NewNop())
	clusters := make([]schemas.ClusterInput, 64)
	for i := range clusters {
		clusters[i] = spanningCluster("c" + string(rune('A'+i%26)) + string(rune('a'+i/26)))
	}
	input := &schemas.DiscoverInput{Clusters: clusters}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx, input)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
