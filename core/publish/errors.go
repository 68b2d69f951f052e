package publish

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrWriteFailure wraps a failed batch write. The write status is unknown.
	ErrWriteFailure = errors.New("route write failed")
	// ErrVerificationMismatch means the write was acknowledged but a read-after-write
	// disagreed with the intended entry.
	ErrVerificationMismatch = errors.New("route verification mismatch")
	// ErrExhaustedRetries is the terminal publish failure.
	ErrExhaustedRetries = errors.New("publish retries exhausted")
	// ErrNoDomains rejects a publish without target domains.
	ErrNoDomains = errors.New("no target domains")
)

// Mismatch is one field of one domain that did not read back as written.
type Mismatch struct {
	Domain   string `json:"domain"`
	Field    string `json:"field"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: %s expected %q got %q", m.Domain, m.Field, m.Expected, m.Actual)
}

// ExhaustedRetriesError reports a publish that never converged.
type ExhaustedRetriesError struct {
	Attempts   int
	LastError  error
	Mismatches []Mismatch
}

func (e *ExhaustedRetriesError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "publish not verified after %d attempts", e.Attempts)
	if e.LastError != nil {
		fmt.Fprintf(&b, "; last write error: %v", e.LastError)
	}
	if len(e.Mismatches) > 0 {
		parts := make([]string, len(e.Mismatches))
		for i, m := range e.Mismatches {
			parts[i] = m.String()
		}
		fmt.Fprintf(&b, "; mismatches: %s", strings.Join(parts, ", "))
	}
	return b.String()
}

// Unwrap exposes ErrExhaustedRetries plus the underlying cause.
func (e *ExhaustedRetriesError) Unwrap() []error {
	errs := []error{ErrExhaustedRetries}
	if e.LastError != nil {
		errs = append(errs, e.LastError)
	}
	if len(e.Mismatches) > 0 {
		errs = append(errs, ErrVerificationMismatch)
	}
	return errs
}
