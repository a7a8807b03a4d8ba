package otel

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"

	"github.com/Francis327921538/graphql-client/internal/eventbus"
	"github.com/Francis327921538/graphql-client/internal/events"
	"github.com/Francis327921538/graphql-client/internal/reqid"
)

// Setup configures OpenTelemetry tracing and attaches eventbus subscribers
// that turn compile and query events into spans. If endpoint is empty, no
// telemetry is configured.
func Setup(endpoint, service string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithInsecure()))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
		)),
	)
	otel.SetTracerProvider(tp)

	sub := &subscriber{tracer: otel.Tracer("graphql-client")}
	sub.register()

	return tp.Shutdown, nil
}

type subscriber struct {
	tracer       trace.Tracer
	compileSpans sync.Map // rid -> trace.Span
	querySpans   sync.Map // rid -> trace.Span
}

func (s *subscriber) register() {
	eventbus.Subscribe(func(ctx context.Context, e events.CompileStart) {
		rid, _ := reqid.FromContext(ctx)
		_, span := s.tracer.Start(ctx, "graphql.compile")
		span.SetAttributes(
			attribute.String("graphql.module", e.Module),
			attribute.String("code.filepath", e.File),
			attribute.Int("code.lineno", e.Line),
		)
		s.compileSpans.Store(rid, span)
	})

	eventbus.Subscribe(func(ctx context.Context, e events.CompileFinish) {
		rid, _ := reqid.FromContext(ctx)
		v, ok := s.compileSpans.LoadAndDelete(rid)
		if !ok {
			return
		}
		span := v.(trace.Span)
		span.SetAttributes(attribute.Int("graphql.definition_count", e.Definitions))
		if e.Err != nil {
			span.RecordError(e.Err)
		}
		span.End()
	})

	eventbus.Subscribe(func(ctx context.Context, e events.QueryStart) {
		rid, _ := reqid.FromContext(ctx)
		_, span := s.tracer.Start(ctx, "graphql.query")
		span.SetAttributes(
			attribute.String("graphql.operation.name", e.OperationName),
			attribute.String("graphql.operation.type", e.OperationType),
		)
		s.querySpans.Store(rid, span)
	})

	eventbus.Subscribe(func(ctx context.Context, e events.QueryFinish) {
		rid, _ := reqid.FromContext(ctx)
		v, ok := s.querySpans.LoadAndDelete(rid)
		if !ok {
			return
		}
		span := v.(trace.Span)
		span.SetAttributes(attribute.Int("graphql.error_count", e.ErrorCount))
		if e.Err != nil {
			span.RecordError(e.Err)
		}
		span.End()
	})
}
