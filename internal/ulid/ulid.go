// Package ulid wraps github.com/oklog/ulid/v2 to produce prefixed, time-sortable
// identifiers for review cycles.
//
// Identifiers look like "cyc-01J9Z3K6X3Q4M1N8T0V2W5Y7AB": a short prefix naming what the
// id belongs to, a separator, and the canonical 26 character ULID.
package ulid

import (
	"crypto/rand"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	// PrefixCycle marks the id of one submit/settle cycle of the review pipeline
	PrefixCycle = "cyc"

	// PrefixRequest marks the id of a single completion request
	PrefixRequest = "req"

	// PrefixSeparator separates the prefix from the ULID
	PrefixSeparator = "-"
)

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

// ID is a ULID with an optional prefix
type ID struct {
	ulid.ULID
	prefix string
}

// New creates an ID for the given timestamp and prefix.
// Monotonic entropy keeps ids generated within the same millisecond ordered.
func New(t time.Time, prefix string) ID {
	entropyLock.Lock()
	id := ulid.MustNew(ulid.Timestamp(t), entropy)
	entropyLock.Unlock()
	return ID{ULID: id, prefix: prefix}
}

// Generate creates an ID for the current time with the given prefix
func Generate(prefix string) ID {
	return New(time.Now(), prefix)
}

// Parse parses "prefix-ULID" or a bare ULID
func Parse(s string) (ID, error) {
	prefix, raw, found := strings.Cut(s, PrefixSeparator)
	if !found {
		raw, prefix = s, ""
	}

	parsed, err := ulid.Parse(raw)
	if err != nil {
		return ID{}, fmt.Errorf("parsing id %q: %w", s, err)
	}
	return ID{ULID: parsed, prefix: prefix}, nil
}

// Prefix returns the prefix, or "" for a bare ULID
func (id ID) Prefix() string {
	return id.prefix
}

// Time returns the timestamp encoded in the id
func (id ID) Time() time.Time {
	return ulid.Time(id.ULID.Time())
}

// IsZero reports whether id is the zero value
func (id ID) IsZero() bool {
	return id.ULID == ulid.ULID{}
}

// String returns "prefix-ULID", or the bare ULID when there is no prefix
func (id ID) String() string {
	if id.prefix == "" {
		return id.ULID.String()
	}
	return id.prefix + PrefixSeparator + id.ULID.String()
}

// CycleID generates a new review cycle id
func CycleID() string {
	return Generate(PrefixCycle).String()
}

// RequestID generates a new completion request id
func RequestID() string {
	return Generate(PrefixRequest).String()
}
