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
	"context"
	"errors"
	"net"
	"strings"

	"github.com/go-arcade/roleadmin/pkg/trace/tracectx"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// RedisHook opens a client span per redis command or pipeline.
type RedisHook struct {
	opts options
}

var _ redis.Hook = (*RedisHook)(nil)

func NewRedisHook(opts ...Option) *RedisHook {
	return &RedisHook{opts: newOptions(opts)}
}

func (h *RedisHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h *RedisHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		ctx, span := h.start(ctx, "redis."+cmd.Name(), attribute.String("db.operation", cmd.Name()))
		defer span.End()

		err := next(ctx, cmd)
		h.finish(span, err)
		return err
	}
}

func (h *RedisHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		names := make([]string, 0, len(cmds))
		for _, cmd := range cmds {
			names = append(names, cmd.Name())
		}
		ctx, span := h.start(ctx, "redis.pipeline",
			attribute.String("db.operation", strings.Join(names, " ")),
			attribute.Int("db.redis.pipeline_length", len(cmds)),
		)
		defer span.End()

		err := next(ctx, cmds)
		h.finish(span, err)
		return err
	}
}

func (h *RedisHook) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := h.opts.tracer().Start(tracectx.WithSpan(ctx), name, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(append(attrs, attribute.String("db.system", "redis"))...)
	return ctx, span
}

func (h *RedisHook) finish(span trace.Span, err error) {
	// a cache miss is not a failure
	if err == nil || errors.Is(err, redis.Nil) {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
