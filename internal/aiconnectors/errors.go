package aiconnectors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strings"
)

// ErrorKind discriminates model invocation failures
type ErrorKind string

const (
	KindTimeout     ErrorKind = "timeout"
	KindRateLimited ErrorKind = "rate-limited"
	KindTransport   ErrorKind = "transport"
	KindUnknown     ErrorKind = "unknown"
)

// InvocationError is returned by Connector.Generate for every failed call
type InvocationError struct {
	Kind     ErrorKind
	Provider Provider
	Attempts int
	Err      error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("%s call failed (%s, %d attempt(s)): %v", e.Provider, e.Kind, e.Attempts, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// Retryable reports whether another attempt may succeed
func (k ErrorKind) Retryable() bool {
	switch k {
	case KindTimeout, KindRateLimited, KindTransport:
		return true
	}
	return false
}

var (
	rateMarkers      = []string{"429", "rate limit", "rate_limit", "ratelimit", "too many requests", "quota", "overloaded"}
	timeoutMarkers   = []string{"timeout", "timed out", "deadline exceeded"}
	transportMarkers = []string{
		"connection refused", "connection reset", "broken pipe", "no such host",
		"network is unreachable", "unexpected eof", "502", "503", "504",
	}
	// rateWord catches provider wording such as "rate exceeded" without
	// matching words like "generate"
	rateWord = regexp.MustCompile(`\brate\b`)
)

// Classify maps a provider error onto an ErrorKind. Typed errors are checked
// first, then the provider's error text.
func Classify(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var inv *InvocationError
	if errors.As(err, &inv) {
		return inv.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return KindUnknown
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return KindTimeout
		}
		return KindTransport
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, rateMarkers):
		return KindRateLimited
	case containsAny(msg, timeoutMarkers):
		return KindTimeout
	case containsAny(msg, transportMarkers):
		return KindTransport
	case rateWord.MatchString(msg):
		return KindRateLimited
	}
	return KindUnknown
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
