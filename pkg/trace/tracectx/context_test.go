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

package tracectx

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func spanCtx(t *testing.T) (context.Context, trace.SpanContext) {
	t.Helper()
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x01, 0x02, 0x03},
		SpanID:     trace.SpanID{0x0a, 0x0b},
		TraceFlags: trace.FlagsSampled,
	})
	require.True(t, sc.IsValid())
	return trace.ContextWithSpanContext(context.Background(), sc), sc
}

func TestRun_BindsAndRestores(t *testing.T) {
	ctx, sc := spanCtx(t)
	assert.Nil(t, Get())

	Run(ctx, func(context.Context) {
		assert.Equal(t, sc, SpanContext(nil))
		assert.Equal(t, sc, trace.SpanContextFromContext(WithSpan(context.Background())))
	})

	assert.Nil(t, Get())
	assert.False(t, SpanContext(context.Background()).IsValid())
}

func TestGet_IsPerGoroutine(t *testing.T) {
	ctx, _ := spanCtx(t)
	Set(ctx)
	defer Clear()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.Nil(t, Get())
	}()
	wg.Wait()

	assert.Equal(t, ctx, Get())
}

func TestWithSpan_KeepsOwnSpan(t *testing.T) {
	bound, _ := spanCtx(t)
	Set(bound)
	defer Clear()

	own := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{0xff},
		SpanID:  trace.SpanID{0xee},
	})
	ctx := trace.ContextWithSpanContext(context.Background(), own)

	assert.Equal(t, own, trace.SpanContextFromContext(WithSpan(ctx)))
}
