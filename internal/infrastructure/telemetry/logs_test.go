package telemetry

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type captureExporter struct {
	mu     sync.Mutex
	bodies []string
}

func (e *captureExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range records {
		e.bodies = append(e.bodies, r.Body().AsString())
	}
	return nil
}

func (e *captureExporter) Shutdown(context.Context) error   { return nil }
func (e *captureExporter) ForceFlush(context.Context) error { return nil }

func (e *captureExporter) messages() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.bodies...)
}

func TestLoggerProvider_Disabled(t *testing.T) {
	lp, err := NewLoggerProvider(context.Background(), LogsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled())

	base := zap.NewNop()
	assert.Same(t, base, lp.Bridge(base, zapcore.InfoLevel))
	assert.NoError(t, lp.Shutdown(context.Background()))
}

func TestLoggerProvider_Bridge(t *testing.T) {
	exporter := &captureExporter{}
	provider := sdklog.NewLoggerProvider(sdklog.WithProcessor(sdklog.NewSimpleProcessor(exporter)))
	lp := newLoggerProvider(provider, LogsConfig{Enabled: true, ServiceName: "invoicing-core"}, zap.NewNop())
	t.Cleanup(func() { _ = lp.Shutdown(context.Background()) })

	core, logs := observer.New(zapcore.DebugLevel)
	log := lp.Bridge(zap.New(core), zapcore.InfoLevel)

	log.Debug("local only")
	log.Info("invoice created", zap.String("invoice_number", "202403-001"))
	log.Warn("stock ledger drift")

	assert.Equal(t, 3, logs.Len(), "base core keeps every record")
	assert.Equal(t, []string{"invoice created", "stock ledger drift"}, exporter.messages())
}
