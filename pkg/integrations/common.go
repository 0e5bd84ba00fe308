package integrations

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	perrors "github.com/matzehuels/partscout/pkg/errors"
)

const defaultTimeout = 30 * time.Second

var inf = math.Inf(1)

var (
	// ErrNotFound is returned for a 404 response.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for transport failures (connection refused, reset, DNS).
	ErrNetwork = errors.New("network error")

	// ErrTimeout is returned when a single request exceeds the client timeout.
	ErrTimeout = errors.New("request timed out")

	// ErrRateLimited is returned when every attempt was answered with 429.
	ErrRateLimited = errors.New("rate limited")
)

// UpstreamError is a non-200, non-429 response. It is never retried.
type UpstreamError struct {
	Status int
	URL    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error: status %d: %s", e.Status, e.URL)
}

// Is lets errors.Is(err, ErrNotFound) match a 404.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// Code maps an access-layer error onto the structured error taxonomy.
func Code(err error) perrors.Code {
	var up *UpstreamError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRateLimited):
		return perrors.ErrCodeRateLimited
	case errors.Is(err, ErrTimeout):
		return perrors.ErrCodeTimeout
	case errors.Is(err, ErrNotFound):
		return perrors.ErrCodeNotFound
	case errors.As(err, &up):
		return perrors.ErrCodeUpstream
	case errors.Is(err, ErrNetwork):
		return perrors.ErrCodeNetwork
	default:
		return perrors.ErrCodeInternal
	}
}

// Classify wraps err with its structured code. Nil stays nil.
func Classify(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return perrors.Wrap(Code(err), err, format, args...)
}

func transportError(err error) error {
	if isTimeout(err) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// PathEscape percent-encodes a single URL path segment.
// This is a convenience wrapper around [url.PathEscape].
func PathEscape(s string) string { return url.PathEscape(s) }

var priceJunk = regexp.MustCompile(`[^0-9.,]`)

// ParsePrice reads a marketplace price string such as "1 234,50 ₽".
// It returns nil when the string holds no positive number.
func ParsePrice(s string) *float64 {
	s = priceJunk.ReplaceAllString(s, "")
	s = strings.Trim(strings.ReplaceAll(s, ",", "."), ".")
	if i := strings.LastIndex(s, "."); i >= 0 {
		s = strings.ReplaceAll(s[:i], ".", "") + s[i:]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}
