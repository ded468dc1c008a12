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

// Package bizerr carries the business error taxonomy of the role administration core.
// Every error exposes a Kind and a message Key; the key is resolved to a
// localized message at the edge (see pkg/i18n).
package bizerr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindPolicy
	KindTransaction
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindPolicy:
		return "policy"
	case KindTransaction:
		return "transaction"
	default:
		return "unknown"
	}
}

// message keys
const (
	KeyEmptyRoleName = "emptyRoleName"
	KeyRoleNameExist = "roleNameExist"
	KeyNotEmail      = "notEmail"
	KeyPermNotExist  = "permNotExist"
	KeyNotExist      = "notExist"
	KeyRoleNotExist  = "roleNotExist"
	KeyDelDefRole    = "delDefRole"
	KeyNoDefRole     = "noDefRole"
	KeyTxFailed      = "txFailed"
)

type Error struct {
	Kind Kind
	Key  string
	Err  error

	retryable bool
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + "(" + e.Key + "): " + e.Err.Error()
	}
	return e.Kind.String() + "(" + e.Key + ")"
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error with the same kind and key, so callers can write
// errors.Is(err, bizerr.Policy(bizerr.KeyDelDefRole)).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Key == e.Key
}

func newError(kind Kind, key string) *Error {
	return &Error{Kind: kind, Key: key}
}

func Validation(key string) *Error {
	return newError(KindValidation, key)
}

func Conflict(key string) *Error {
	return newError(KindConflict, key)
}

func NotFound(key string) *Error {
	return newError(KindNotFound, key)
}

func Policy(key string) *Error {
	return newError(KindPolicy, key)
}

// Transaction wraps a store failure. retryable must only be set when the
// failure happened before commit, i.e. the transaction was rolled back.
func Transaction(err error, retryable bool) *Error {
	return &Error{Kind: KindTransaction, Key: KeyTxFailed, Err: err, retryable: retryable}
}

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func KeyOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Key
	}
	return ""
}

func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == KindTransaction && e.retryable
	}
	return false
}

// StatusCode maps an error to the HTTP status returned by the admin API.
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindPolicy:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
