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

// Package tracectx keeps the active request context in goroutine local
// storage, so code that logs without a context.Context still finds its span.
package tracectx

import (
	"context"

	"github.com/timandy/routine"
	"go.opentelemetry.io/otel/trace"
)

var current = routine.NewThreadLocal[context.Context]()

// Get returns the context bound to the calling goroutine, or nil.
func Get() context.Context {
	return current.Get()
}

// Set binds ctx to the calling goroutine.
func Set(ctx context.Context) {
	current.Set(ctx)
}

// Clear drops the binding of the calling goroutine.
func Clear() {
	current.Remove()
}

// Run binds ctx for the duration of fn.
func Run(ctx context.Context, fn func(ctx context.Context)) {
	prev := Get()
	Set(ctx)
	defer func() {
		if prev != nil {
			Set(prev)
			return
		}
		Clear()
	}()
	fn(ctx)
}

// SpanContext returns the span of ctx, falling back to the goroutine bound
// context when ctx carries none.
func SpanContext(ctx context.Context) trace.SpanContext {
	if ctx != nil {
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			return sc
		}
	}
	if bound := Get(); bound != nil {
		return trace.SpanContextFromContext(bound)
	}
	return trace.SpanContext{}
}

// WithSpan returns ctx carrying the goroutine bound span when ctx has none.
func WithSpan(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if trace.SpanContextFromContext(ctx).IsValid() {
		return ctx
	}
	if bound := Get(); bound != nil {
		if span := trace.SpanFromContext(bound); span.SpanContext().IsValid() {
			return trace.ContextWithSpan(ctx, span)
		}
	}
	return ctx
}
