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

package http

import (
	"github.com/go-arcade/roleadmin/pkg/bizerr"
)

var (
	Failed                        = failed(500, "Request failed")
	RequestParameterParsingFailed = failed(5001, "Request parameter parsing failed")

	// BadRequest 400
	BadRequest = failed(4000, "Bad request")
	NotFound   = failed(4004, "Not found")
	Conflict   = failed(4009, "Conflict")
	// PolicyViolation 422, e.g. deleting the default role
	PolicyViolation = failed(4022, "Operation not allowed")

	UserIdInvalid = failed(4010, "X-User-Id header is invalid")
	RoleIdInvalid = failed(4011, "Role id is invalid")

	InternalError = failed(5000, "Internal error, please contact the administrator")
)

var (
	Success = success(200, "Request Success")
)

// CodeOf maps a business error to its response code
func CodeOf(err error) int {
	switch bizerr.KindOf(err) {
	case bizerr.KindValidation:
		return BadRequest.Code
	case bizerr.KindConflict:
		return Conflict.Code
	case bizerr.KindNotFound:
		return NotFound.Code
	case bizerr.KindPolicy:
		return PolicyViolation.Code
	default:
		return InternalError.Code
	}
}

// failed 构造函数
func failed(code int, msg string) *Response {
	return &Response{
		Code:   code,
		Msg:    msg,
		Detail: nil,
	}
}

// success 构造函数
func success(code int, msg string) *Response {
	return &Response{
		Code:   code,
		Msg:    msg,
		Detail: nil,
	}
}
