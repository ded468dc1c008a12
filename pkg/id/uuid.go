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

package id

import (
	"strings"

	"github.com/google/uuid"
)

const maxRequestIdLen = 64

// NewRequestId generates a request id for a call that did not bring one.
func NewRequestId() string {
	return uuid.NewString()
}

// NewCompactId generates a uuid without dashes
func NewCompactId() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ValidRequestId reports whether an inbound request id can be echoed back
// and written to logs as is: non-empty, bounded, and limited to
// letters, digits, '-', '_' and '.'.
func ValidRequestId(s string) bool {
	if s == "" || len(s) > maxRequestIdLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.':
		default:
			return false
		}
	}
	return true
}
