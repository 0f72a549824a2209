package tracing

import (
	"context"
	"fmt"
	"os"

	"github.com/honeycombio/honeycomb-opentelemetry-go"
	"github.com/honeycombio/otel-config-go/otelconfig"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var GlobalTracer = otel.Tracer("gymstats")

// EndSpanWithErrCheck marks the span as failed when err is set, then ends it.
func EndSpanWithErrCheck(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	}
	span.End()
}

// HoneycombSetup configures the OpenTelemetry SDK to export to Honeycomb.
// It reads HONEYCOMB_API_KEY from the environment and returns the shutdown func.
func HoneycombSetup(honeycombEnabled bool, serviceName, serviceVersion string) (func(), error) {
	if !honeycombEnabled {
		log.Debugf("honeycomb tracing disabled")
		return func() {}, nil
	}

	if os.Getenv("HONEYCOMB_API_KEY") == "" {
		return nil, fmt.Errorf("honeycomb enabled, but HONEYCOMB_API_KEY not set")
	}

	// enable multi-span attributes
	bsp := honeycomb.NewBaggageSpanProcessor()

	otelShutdown, err := otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithSpanProcessor(bsp),
		otelconfig.WithServiceName(serviceName),
		otelconfig.WithServiceVersion(serviceVersion),
	)
	if err != nil {
		return nil, fmt.Errorf("configure open telemetry: %w", err)
	}

	log.Infof("honeycomb tracing enabled for service %s", serviceName)
	return otelShutdown, nil
}

// SpanFromContext is used by code that only annotates an already started span.
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}
