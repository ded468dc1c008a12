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

package log

import (
	"github.com/go-arcade/roleadmin/pkg/trace/tracectx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// traceCore adds trace_id and span_id of the goroutine bound span to every
// entry.
type traceCore struct {
	zapcore.Core
}

func wrapCoreWithTrace(core zapcore.Core) zapcore.Core {
	return &traceCore{Core: core}
}

func (c *traceCore) With(fields []zapcore.Field) zapcore.Core {
	return &traceCore{Core: c.Core.With(fields)}
}

func (c *traceCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *traceCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	sc := tracectx.SpanContext(nil)
	if !sc.IsValid() {
		return c.Core.Write(ent, fields)
	}
	traced := make([]zapcore.Field, 0, len(fields)+2)
	traced = append(traced,
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
	return c.Core.Write(ent, append(traced, fields...))
}
