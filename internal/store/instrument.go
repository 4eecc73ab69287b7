package store

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/ignaciociccioli3-cmd/Backend1/internal/store"

// Instrumented wraps a Collection with a span, an operation counter and a
// latency histogram per Load and Save.
type Instrumented[T any] struct {
	next     Collection[T]
	attrs    []attribute.KeyValue
	tracer   trace.Tracer
	ops      metric.Int64Counter
	duration metric.Float64Histogram
}

var _ Collection[struct{}] = (*Instrumented[struct{}])(nil)

// Instrument returns next wrapped with telemetry labelled by name.
func Instrument[T any](next Collection[T], name string, mp metric.MeterProvider, tp trace.TracerProvider) (*Instrumented[T], error) {
	meter := mp.Meter(instrumentationName)

	ops, err := meter.Int64Counter("catalog.collection.ops",
		metric.WithDescription("Collection load and save operations"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create ops counter")
	}
	duration, err := meter.Float64Histogram("catalog.collection.duration",
		metric.WithDescription("Collection operation latency"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create duration histogram")
	}

	return &Instrumented[T]{
		next:     next,
		attrs:    []attribute.KeyValue{attribute.String("collection", name)},
		tracer:   tp.Tracer(instrumentationName),
		ops:      ops,
		duration: duration,
	}, nil
}

// Load implements Collection.
func (c *Instrumented[T]) Load(ctx context.Context) (records []T, err error) {
	ctx, done := c.start(ctx, "load")
	defer func() { done(err) }()

	return c.next.Load(ctx)
}

// Save implements Collection.
func (c *Instrumented[T]) Save(ctx context.Context, records []T) (err error) {
	ctx, done := c.start(ctx, "save")
	defer func() { done(err) }()

	return c.next.Save(ctx, records)
}

func (c *Instrumented[T]) start(ctx context.Context, op string) (context.Context, func(error)) {
	ctx, span := c.tracer.Start(ctx, "collection."+op, trace.WithAttributes(c.attrs...))
	began := time.Now()

	return ctx, func(err error) {
		result := "ok"
		if err != nil {
			result = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		attrs := metric.WithAttributes(append(c.attrs,
			attribute.String("op", op),
			attribute.String("result", result),
		)...)
		c.ops.Add(ctx, 1, attrs)
		c.duration.Record(ctx, time.Since(began).Seconds(), attrs)
		span.End()
	}
}
