// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package trace

import (
	"context"
	"fmt"
	"time"

	"github.com/go-arcade/roleadmin/pkg/log"
	"github.com/go-arcade/roleadmin/pkg/version"
	"github.com/google/wire"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

var ProviderSet = wire.NewSet(ProvideTracerProvider)

// TraceConfig is the [trace] section.
type TraceConfig struct {
	// Enabled turns on span export. When off spans are still created so
	// logs carry trace ids, but nothing leaves the process.
	Enabled bool
	// Protocol is "grpc" or "http"
	Protocol string
	// Endpoint of the OTLP collector, e.g. localhost:4317
	Endpoint    string
	ServiceName string
	Insecure    bool
	// Headers are sent with every export (http only)
	Headers map[string]string
	// SampleRatio of root spans kept, 0 means 1.0
	SampleRatio float64
	// BatchTimeout and ExportTimeout are in seconds
	BatchTimeout       int
	ExportTimeout      int
	MaxExportBatchSize int
}

func (c *TraceConfig) SetDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "roleadmin"
	}
	if c.Protocol == "" {
		c.Protocol = "grpc"
	}
	if c.Endpoint == "" {
		if c.Protocol == "grpc" {
			c.Endpoint = "localhost:4317"
		} else {
			c.Endpoint = "localhost:4318"
		}
	}
	if c.SampleRatio <= 0 || c.SampleRatio > 1 {
		c.SampleRatio = 1
	}
	if c.BatchTimeout <= 0 {
		c.BatchTimeout = 5
	}
	if c.ExportTimeout <= 0 {
		c.ExportTimeout = 30
	}
	if c.MaxExportBatchSize <= 0 {
		c.MaxExportBatchSize = 512
	}
}

func (c *TraceConfig) sampler() sdktrace.Sampler {
	if c.SampleRatio >= 1 {
		return sdktrace.AlwaysSample()
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(c.SampleRatio))
}

// ProvideTracerProvider installs the global tracer provider and W3C
// propagator. The returned cleanup flushes pending spans.
func ProvideTracerProvider(conf TraceConfig) (*sdktrace.TracerProvider, func(), error) {
	return NewTracerProvider(context.Background(), conf)
}

func NewTracerProvider(ctx context.Context, conf TraceConfig) (*sdktrace.TracerProvider, func(), error) {
	conf.SetDefaults()

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if !conf.Enabled {
		tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(conf.sampler()))
		otel.SetTracerProvider(tp)
		log.Debugw("tracing export disabled")
		return tp, func() { _ = tp.Shutdown(context.Background()) }, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", conf.ServiceName),
			attribute.String("service.version", version.GetVersion().Version),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create trace resource: %w", err)
	}

	exporter, err := newExporter(ctx, conf)
	if err != nil {
		return nil, nil, fmt.Errorf("create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter,
			sdktrace.WithBatchTimeout(time.Duration(conf.BatchTimeout)*time.Second),
			sdktrace.WithExportTimeout(time.Duration(conf.ExportTimeout)*time.Second),
			sdktrace.WithMaxExportBatchSize(conf.MaxExportBatchSize),
		),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(conf.sampler()),
	)
	otel.SetTracerProvider(tp)

	log.Infow("tracing initialized",
		"protocol", conf.Protocol,
		"endpoint", conf.Endpoint,
		"service", conf.ServiceName,
	)

	cleanup := func() {
		timeout := min(max(time.Duration(conf.ExportTimeout)*time.Second, 5*time.Second), 30*time.Second)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Warnw("tracer provider shutdown failed", "error", err)
		}
	}
	return tp, cleanup, nil
}

func newExporter(ctx context.Context, conf TraceConfig) (sdktrace.SpanExporter, error) {
	timeout := time.Duration(conf.ExportTimeout) * time.Second
	switch conf.Protocol {
	case "grpc":
		opts := []otlptracegrpc.Option{
			otlptracegrpc.WithEndpoint(conf.Endpoint),
			otlptracegrpc.WithTimeout(timeout),
		}
		if conf.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		return otlptrace.New(ctx, otlptracegrpc.NewClient(opts...))
	case "http":
		opts := []otlptracehttp.Option{
			otlptracehttp.WithEndpoint(conf.Endpoint),
			otlptracehttp.WithTimeout(timeout),
		}
		if conf.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		if len(conf.Headers) > 0 {
			opts = append(opts, otlptracehttp.WithHeaders(conf.Headers))
		}
		return otlptrace.New(ctx, otlptracehttp.NewClient(opts...))
	default:
		return nil, fmt.Errorf("unsupported trace protocol: %s", conf.Protocol)
	}
}

// Tracer returns a named tracer from the global provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
