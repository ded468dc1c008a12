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

package util

// SetIfNotNil sets column to *ptr when ptr is not nil. Zero values are kept,
// so a role can be updated to sort 0 or send_count 0.
//
//	updates := map[string]any{"name": req.Name}
//	SetIfNotNil(updates, "sort", req.Sort)
func SetIfNotNil[T any](m map[string]any, column string, ptr *T) {
	if ptr != nil {
		m[column] = *ptr
	}
}

// Unique returns s without duplicates, keeping first-seen order.
func Unique[T comparable](s []T) []T {
	if len(s) == 0 {
		return s
	}
	seen := make(map[T]struct{}, len(s))
	out := make([]T, 0, len(s))
	for _, v := range s {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
