package hub

import (
	"encoding/json"

	"github.com/quotedesk/quotedesk/internal/domain"
)

// clientFrame is a client→server invocation.
type clientFrame struct {
	ID     int64  `json:"id"`
	Method string `json:"method"`
	Args   []any  `json:"args,omitempty"`
}

// serverFrame is any server→client text frame. Replies carry an id and an
// envelope; pushes carry a message name and payload.
type serverFrame struct {
	ID        int64                 `json:"id,omitempty"`
	Succeeded bool                  `json:"succeeded,omitempty"`
	Value     json.RawMessage       `json:"value,omitempty"`
	Error     *domain.ResponseError `json:"error,omitempty"`
	Message   string                `json:"message,omitempty"`
	Payload   json.RawMessage       `json:"payload,omitempty"`
}
