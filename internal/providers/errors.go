package providers

import (
	"fmt"
	"strings"

	"github.com/calyptra/squadrun/internal/core"
)

// UpstreamError carries the structured metadata of a failed provider call.
// It is the only error shape that crosses the provider boundary for upstream
// failures; everything above classifies on it instead of vendor text.
type UpstreamError struct {
	RequestID core.RequestID
	Status    int
	Code      string
	Message   string
}

func (e *UpstreamError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "provider error (request_id=%s): status %d", e.RequestID, e.Status)
	if e.Code != "" {
		fmt.Fprintf(&b, " code=%s", e.Code)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// TransportError marks a request that never produced an upstream response,
// such as a connection failure or timeout.
type TransportError struct {
	RequestID core.RequestID
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("provider request failed (request_id=%s): %v", e.RequestID, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
