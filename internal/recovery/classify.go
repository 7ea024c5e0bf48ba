// Package recovery decides whether failed upstream dispatches retry and with
// what delay. Vendor error shapes are translated here and nowhere else.
package recovery

import (
	"errors"
	"strings"

	"github.com/calyptra/squadrun/internal/providers"
)

type Classification string

const (
	RateLimit       Classification = "rate_limit_retryable"
	QuotaExhausted  Classification = "quota_exhausted_fatal"
	ServerTransient Classification = "transient_server_retryable"
	Unknown         Classification = "unknown_fatal"
)

// Retryable reports whether the classification is eligible for the retry
// envelope. Quota exhaustion needs operator action and never retries.
func (c Classification) Retryable() bool {
	return c == RateLimit || c == ServerTransient
}

var quotaMarkers = []string{"insufficient_quota", "quota", "billing"}

// Classify maps an upstream failure onto the fixed taxonomy. Structured
// metadata from the provider boundary wins; message text is only a fallback
// for errors that lost their shape on the way up.
func Classify(err error) Classification {
	var upstream *providers.UpstreamError
	if errors.As(err, &upstream) {
		return classifyUpstream(upstream)
	}

	var transport *providers.TransportError
	if errors.As(err, &transport) {
		return ServerTransient
	}

	return classifyText(err.Error())
}

func classifyUpstream(err *providers.UpstreamError) Classification {
	switch {
	case err.Status == 429:
		code := strings.ToLower(err.Code)
		for _, marker := range quotaMarkers {
			if strings.Contains(code, marker) {
				return QuotaExhausted
			}
		}
		return RateLimit
	case err.Status >= 500:
		return ServerTransient
	default:
		return classifyText(strings.ToLower(err.Code + " " + err.Message))
	}
}

func classifyText(text string) Classification {
	text = strings.ToLower(text)

	for _, marker := range quotaMarkers {
		if strings.Contains(text, marker) {
			return QuotaExhausted
		}
	}

	if strings.Contains(text, "rate limit") || strings.Contains(text, "429") {
		return RateLimit
	}

	for _, marker := range []string{"500", "502", "503", "timeout", "connection", "network", "overloaded"} {
		if strings.Contains(text, marker) {
			return ServerTransient
		}
	}

	return Unknown
}

// IsUpstream reports whether the error originated from the upstream call.
// Local faults return false and must bypass the retry envelope entirely.
func IsUpstream(err error) bool {
	var upstream *providers.UpstreamError
	if errors.As(err, &upstream) {
		return true
	}

	var transport *providers.TransportError
	if errors.As(err, &transport) {
		return true
	}

	return classifyText(err.Error()) != Unknown
}
