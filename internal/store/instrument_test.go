package store

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

type memCollection struct {
	records []testRecord
	saveErr error
	saves   int
}

func (m *memCollection) Load(context.Context) ([]testRecord, error) {
	return append([]testRecord(nil), m.records...), nil
}

func (m *memCollection) Save(_ context.Context, records []testRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.records = records
	return nil
}

func TestInstrumented_Delegates(t *testing.T) {
	ctx := context.Background()
	mem := &memCollection{}

	c, err := Instrument[testRecord](mem, "records", metricnoop.NewMeterProvider(), tracenoop.NewTracerProvider())
	require.NoError(t, err)

	require.NoError(t, c.Save(ctx, []testRecord{{ID: 1, Name: "a"}}))
	records, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []testRecord{{ID: 1, Name: "a"}}, records)
	assert.Equal(t, 1, mem.saves)
}

func TestInstrumented_PropagatesErrors(t *testing.T) {
	mem := &memCollection{saveErr: errors.New("disk full")}

	c, err := Instrument[testRecord](mem, "records", metricnoop.NewMeterProvider(), tracenoop.NewTracerProvider())
	require.NoError(t, err)

	err = c.Save(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
