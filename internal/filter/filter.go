// Package filter decides which followed lines reach the output.
package filter

import (
	"github.com/vburojevic/trunk/internal/domain"
)

// Filter determines if a line should be emitted
type Filter interface {
	// Match returns true if the line passes the filter
	Match(line *domain.Line) bool
}
