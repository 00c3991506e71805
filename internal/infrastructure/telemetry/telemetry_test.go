package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func TestStartServiceSpan(t *testing.T) {
	sr := setupTestTracer(t)
	invoiceID := uuid.New()

	_, span := telemetry.StartServiceSpan(context.Background(), "invoice", "create",
		telemetry.SpanAttrInvoiceID, invoiceID,
		telemetry.SpanAttrItemCount, 3,
	)
	telemetry.RecordError(span, errors.New("boom"))
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "invoice.create", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)

	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, invoiceID.String(), attrs[telemetry.SpanAttrInvoiceID])
	assert.Equal(t, "3", attrs[telemetry.SpanAttrItemCount])
}

func TestBusinessMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	bm, err := telemetry.NewBusinessMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	tenantID := uuid.New()
	bm.RecordInvoiceOperation(ctx, tenantID, telemetry.OperationCreate, telemetry.OutcomeSuccess)
	bm.RecordInvoiceCreated(ctx, tenantID, decimal.NewFromInt(885))
	bm.RecordPayment(ctx, tenantID, "cash", "partial", decimal.RequireFromString("500.25"))
	bm.RecordStockMovement(ctx, tenantID, "sale", -3)
	bm.RecordStockMovement(ctx, tenantID, "sale_deletion", 3)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if data, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range data.DataPoints {
					sums[m.Name] += dp.Value
				}
			}
		}
	}
	assert.Equal(t, int64(1), sums["invoice_operations_total"])
	assert.Equal(t, int64(1), sums["invoice_payments_total"])
	assert.Equal(t, int64(50025), sums["invoice_payment_amount_paise_total"])
	assert.Equal(t, int64(2), sums["inventory_history_entries_total"])
	assert.Equal(t, int64(6), sums["inventory_units_moved_total"])
}

func TestBusinessMetrics_NilSafe(t *testing.T) {
	var bm *telemetry.BusinessMetrics
	assert.NotPanics(t, func() {
		bm.RecordInvoiceOperation(context.Background(), uuid.New(), telemetry.OperationDelete, telemetry.OutcomeFailed)
		bm.RecordStockMovement(context.Background(), uuid.New(), "sale", 1)
	})

	_, err := telemetry.NewBusinessMetrics(nil)
	assert.ErrorIs(t, err, telemetry.ErrMeterNil)
}

func TestRegisterDBTracing(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, telemetry.RegisterDBTracing(db, telemetry.DBTracingConfig{Enabled: false}, zap.NewNop()))
	require.NoError(t, telemetry.RegisterDBTracing(db, telemetry.DBTracingConfig{Enabled: true, DBName: "sqlite"}, zap.NewNop()))
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("x"))
	assert.NoError(t, tp.Shutdown(context.Background()))
}
