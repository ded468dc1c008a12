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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestTraceConfig_SetDefaults(t *testing.T) {
	tests := []struct {
		name     string
		conf     TraceConfig
		endpoint string
		ratio    float64
	}{
		{name: "grpc", conf: TraceConfig{}, endpoint: "localhost:4317", ratio: 1},
		{name: "http", conf: TraceConfig{Protocol: "http", SampleRatio: 0.25}, endpoint: "localhost:4318", ratio: 0.25},
		{name: "ratio out of range", conf: TraceConfig{SampleRatio: 3}, endpoint: "localhost:4317", ratio: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := tt.conf
			conf.SetDefaults()
			assert.Equal(t, "roleadmin", conf.ServiceName)
			assert.Equal(t, tt.endpoint, conf.Endpoint)
			assert.Equal(t, tt.ratio, conf.SampleRatio)
			assert.Equal(t, 5, conf.BatchTimeout)
			assert.Equal(t, 30, conf.ExportTimeout)
			assert.Equal(t, 512, conf.MaxExportBatchSize)
		})
	}
}

func TestNewTracerProvider_DisabledStillMintsIds(t *testing.T) {
	tp, cleanup, err := NewTracerProvider(context.Background(), TraceConfig{})
	require.NoError(t, err)
	defer cleanup()

	assert.Same(t, tp, otel.GetTracerProvider())

	_, span := Tracer("test").Start(context.Background(), "op")
	defer span.End()
	assert.True(t, span.SpanContext().IsValid())
	assert.True(t, span.SpanContext().IsSampled())
}

func TestNewTracerProvider_UnsupportedProtocol(t *testing.T) {
	_, _, err := NewTracerProvider(context.Background(), TraceConfig{Enabled: true, Protocol: "kafka"})
	assert.ErrorContains(t, err, "unsupported trace protocol")
}
