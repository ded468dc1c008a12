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
	"errors"

	"github.com/go-arcade/roleadmin/pkg/trace/tracectx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const gormSpanKey = "roleadmin:trace_span"

// GormPlugin opens a client span around every gorm statement.
type GormPlugin struct {
	// WithQuery records the rendered SQL
	WithQuery bool
	opts      options
}

func NewGormPlugin(withQuery bool, opts ...Option) *GormPlugin {
	return &GormPlugin{WithQuery: withQuery, opts: newOptions(opts)}
}

func (p *GormPlugin) Name() string {
	return "roleadmin:trace"
}

func (p *GormPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	for _, err := range []error{
		cb.Create().Before("gorm:create").Register("trace:before_create", p.before("create")),
		cb.Query().Before("gorm:query").Register("trace:before_query", p.before("query")),
		cb.Update().Before("gorm:update").Register("trace:before_update", p.before("update")),
		cb.Delete().Before("gorm:delete").Register("trace:before_delete", p.before("delete")),
		cb.Row().Before("gorm:row").Register("trace:before_row", p.before("row")),
		cb.Raw().Before("gorm:raw").Register("trace:before_raw", p.before("raw")),

		cb.Create().After("gorm:create").Register("trace:after_create", p.after),
		cb.Query().After("gorm:query").Register("trace:after_query", p.after),
		cb.Update().After("gorm:update").Register("trace:after_update", p.after),
		cb.Delete().After("gorm:delete").Register("trace:after_delete", p.after),
		cb.Row().After("gorm:row").Register("trace:after_row", p.after),
		cb.Raw().After("gorm:raw").Register("trace:after_raw", p.after),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *GormPlugin) before(op string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		if db.Statement == nil {
			return
		}
		ctx := tracectx.WithSpan(db.Statement.Context)
		ctx, span := p.opts.tracer().Start(ctx, "gorm."+op, trace.WithSpanKind(trace.SpanKindClient))
		db.Statement.Context = ctx
		db.InstanceSet(gormSpanKey, span)

		attrs := []attribute.KeyValue{
			attribute.String("db.system", db.Dialector.Name()),
			attribute.String("db.operation", op),
		}
		if db.Statement.Table != "" {
			attrs = append(attrs, attribute.String("db.sql.table", db.Statement.Table))
		}
		span.SetAttributes(attrs...)
	}
}

func (p *GormPlugin) after(db *gorm.DB) {
	if db.Statement == nil {
		return
	}
	v, ok := db.InstanceGet(gormSpanKey)
	if !ok {
		return
	}
	span, ok := v.(trace.Span)
	if !ok {
		return
	}
	defer span.End()

	if p.WithQuery {
		if sql := db.Statement.SQL.String(); sql != "" {
			span.SetAttributes(attribute.String("db.statement", sql))
		}
	}
	span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))

	// a miss is a normal outcome for finders
	if err := db.Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// RegisterGormPlugin installs the tracing plugin on db.
func RegisterGormPlugin(db *gorm.DB, withQuery bool, opts ...Option) error {
	return db.Use(NewGormPlugin(withQuery, opts...))
}
