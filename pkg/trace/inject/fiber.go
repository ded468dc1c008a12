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

package inject

import (
	"fmt"

	"github.com/go-arcade/roleadmin/pkg/log"
	"github.com/go-arcade/roleadmin/pkg/trace/tracectx"
	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// HeaderTraceId echoes the trace id of the request span.
const HeaderTraceId = "X-Trace-Id"

// FiberMiddleware opens a server span per request, continuing any W3C
// traceparent sent by the caller. The span context is stored in the fiber
// user context and bound to the handling goroutine for the logger.
func FiberMiddleware(opts ...Option) fiber.Handler {
	o := newOptions(opts)
	return func(c *fiber.Ctx) error {
		ctx := o.textMapPropagator().Extract(c.UserContext(), fiberCarrier{c})

		route := c.Method() + " " + c.Path()
		ctx, span := o.tracer().Start(ctx, route, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		c.SetUserContext(ctx)
		tracectx.Set(ctx)
		defer tracectx.Clear()

		if sc := span.SpanContext(); sc.HasTraceID() {
			c.Set(HeaderTraceId, sc.TraceID().String())
		}

		attrs := []attribute.KeyValue{
			attribute.String("http.method", c.Method()),
			attribute.String("http.target", string(c.Request().URI().RequestURI())),
		}
		if id := log.RequestIdFrom(ctx); id != "" {
			attrs = append(attrs, attribute.String("http.request_id", id))
		}
		if ua := c.Get(fiber.HeaderUserAgent); ua != "" {
			attrs = append(attrs, attribute.String("http.user_agent", ua))
		}
		span.SetAttributes(attrs...)

		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		span.SetAttributes(attribute.Int("http.status_code", status))
		switch {
		case err != nil:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		case status >= fiber.StatusInternalServerError:
			span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", status))
		}
		return err
	}
}

// fiberCarrier reads propagation headers from the request and writes them
// to the response.
type fiberCarrier struct {
	c *fiber.Ctx
}

func (f fiberCarrier) Get(key string) string {
	return f.c.Get(key)
}

func (f fiberCarrier) Set(key, value string) {
	f.c.Set(key, value)
}

func (f fiberCarrier) Keys() []string {
	return nil
}
