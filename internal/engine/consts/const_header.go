package consts

const (
	HeaderRequestId = "X-Request-Id"
	// HeaderUserId carries the operator id; authentication happens upstream.
	HeaderUserId = "X-User-Id"

	LocalsRequestId = "request_id"
	LocalsIP        = "ip"
)
