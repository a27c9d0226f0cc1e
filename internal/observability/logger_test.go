// File: internal/observability/logger_test.go
package observability

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xkilldash9x/svscout/internal/config"
)

// syncBuffer is a WriteSyncer over an in-memory buffer.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Sync() error { return nil }

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testLoggerConfig() config.LoggerConfig {
	return config.LoggerConfig{
		Level:       "debug",
		Format:      "json",
		ServiceName: "svscout-test",
	}
}

func TestInitializeAndGetLogger(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	buf := &syncBuffer{}
	Initialize(testLoggerConfig(), buf)

	logger := GetLogger()
	require.NotNil(t, logger)
	logger.Info("graph merged", zap.Int("loci", 2))
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.Contains(t, out, "graph merged")
	assert.Contains(t, out, `"loci":2`)
	assert.Contains(t, out, "svscout-test")
}

func TestInitializeRunsOnce(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	first := &syncBuffer{}
	second := &syncBuffer{}
	Initialize(testLoggerConfig(), first)
	Initialize(testLoggerConfig(), second)

	GetLogger().Info("only the first writer sees this")
	_ = GetLogger().Sync()

	assert.Contains(t, first.String(), "only the first writer sees this")
	assert.Empty(t, second.String())
}

func TestLevelFiltering(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	cfg := testLoggerConfig()
	cfg.Level = "warn"
	buf := &syncBuffer{}
	Initialize(cfg, buf)

	GetLogger().Info("suppressed")
	GetLogger().Warn("emitted")
	_ = GetLogger().Sync()

	out := buf.String()
	assert.NotContains(t, out, "suppressed")
	assert.Contains(t, out, "emitted")
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	cfg := testLoggerConfig()
	cfg.Level = "shouty"
	buf := &syncBuffer{}
	Initialize(cfg, buf)

	GetLogger().Debug("below the fallback level")
	GetLogger().Info("at the fallback level")
	_ = GetLogger().Sync()

	out := buf.String()
	assert.NotContains(t, out, "below the fallback level")
	assert.Contains(t, out, "at the fallback level")
}

func TestGetLoggerBeforeInitialize(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	// Must hand back a usable fallback rather than nil.
	logger := GetLogger()
	require.NotNil(t, logger)
	logger.Debug("fallback logger works")
}

var _ zapcore.WriteSyncer = (*syncBuffer)(nil)
