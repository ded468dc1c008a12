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
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestDefaultConf(t *testing.T) {
	conf := SetDefaults()

	if conf.Output != "stdout" {
		t.Errorf("expected output to be stdout, got %s", conf.Output)
	}

	if conf.Level != "INFO" {
		t.Errorf("expected level to be INFO, got %s", conf.Level)
	}

	if conf.KeepHours != 7 {
		t.Errorf("expected KeepHours to be 7, got %d", conf.KeepHours)
	}
}

func TestConf_Validate(t *testing.T) {
	tests := []struct {
		name    string
		conf    *Conf
		wantErr bool
	}{
		{
			name:    "valid stdout config",
			conf:    &Conf{Output: "stdout", Level: "INFO"},
			wantErr: false,
		},
		{
			name:    "invalid file config - missing path",
			conf:    &Conf{Output: "file", Level: "INFO"},
			wantErr: true,
		},
		{
			name: "file config with auto-correction",
			conf: &Conf{
				Output: "file",
				Path:   "/tmp/logs",
				Level:  "INFO",
				// 未设置 KeepHours, RotateSize, RotateNum
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.conf.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}

			// 验证自动修正
			if !tt.wantErr && tt.conf.Output == "file" {
				if tt.conf.RotateSize <= 0 || tt.conf.RotateNum <= 0 || tt.conf.KeepHours <= 0 {
					t.Error("rotation settings should be auto-corrected to positive values")
				}
			}
		})
	}
}

func TestNewLog_File(t *testing.T) {
	tmpDir := t.TempDir()

	conf := &Conf{
		Output:     "file",
		Path:       tmpDir,
		Filename:   "test.log",
		Level:      "INFO",
		KeepHours:  1,
		RotateSize: 1,
		RotateNum:  3,
	}

	logger, err := NewLog(conf)
	if err != nil {
		t.Fatalf("NewLog() error = %v", err)
	}

	logger.Info("test message 1")
	logger.Warn("test message 2")
	_ = logger.Sync()

	logFile := filepath.Join(tmpDir, "test.log")
	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		t.Errorf("log file should exist at %s", logFile)
	}

	// 恢复 stdout，避免影响其他用例
	MustInit(SetDefaults())
}

func TestSetLevel(t *testing.T) {
	MustInit(SetDefaults())

	SetLevel("debug")
	if GetLevel() != zapcore.DebugLevel {
		t.Errorf("expected debug level, got %v", GetLevel())
	}

	SetLevel("ERROR")
	if GetLevel() != zapcore.ErrorLevel {
		t.Errorf("expected error level, got %v", GetLevel())
	}

	SetLevel("INFO")
}

func TestRequestIdContext(t *testing.T) {
	ctx := ContextWithRequestId(context.Background(), "req-123")

	if got := RequestIdFrom(ctx); got != "req-123" {
		t.Errorf("RequestIdFrom() = %q, want req-123", got)
	}
	if got := RequestIdFrom(context.Background()); got != "" {
		t.Errorf("RequestIdFrom() = %q, want empty", got)
	}

	WithContext(ctx).Infow("message with request id")
}

func TestGlobalLogFunctions(t *testing.T) {
	MustInit(SetDefaults())

	Infow("formatted info", "value", "test")
	Debugw("formatted debug", "value", 123)
	Warnw("formatted warn", "count", 5)
	Errorw("formatted error", "error", "something went wrong")

	if err := Sync(); err != nil {
		t.Errorf("Sync() should return nil, got %v", err)
	}
}

func TestConcurrentLogging(t *testing.T) {
	MustInit(SetDefaults())

	done := make(chan bool, 50)
	for i := 0; i < 50; i++ {
		n := i
		go func() {
			Infow("concurrent message", "number", n)
			done <- true
		}()
	}

	for range 50 {
		<-done
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"DEBUG", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"WARN", zapcore.WarnLevel},
		{"WARNING", zapcore.WarnLevel},
		{"ERROR", zapcore.ErrorLevel},
		{"FATAL", zapcore.FatalLevel},
		{"INVALID", zapcore.InfoLevel}, // 默认值
		{"", zapcore.InfoLevel},        // 默认值
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := parseLogLevel(tt.input)
			if result != tt.expected {
				t.Errorf("parseLogLevel(%s) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}
