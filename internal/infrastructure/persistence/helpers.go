// Package persistence holds the suite's repositories: plain
// database/sql over the fixed schema, one repository per module.
package persistence

import (
	"database/sql"
	"time"

	"github.com/atlaserp/backend/pkg/constants"
)

// parseDateTime decodes a raw MySQL datetime column. The driver hands
// back []byte when parseTime is off or the value went through an
// aggregate; both layouts seen in practice are tried.
func parseDateTime(raw []byte) time.Time {
	if len(raw) == 0 {
		return time.Time{}
	}
	if t, err := time.Parse(constants.DateTimeLayout, string(raw)); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, string(raw)); err == nil {
		return t
	}
	return time.Time{}
}

// nullTimePtr converts a NullTime into *time.Time.
func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// timePtrValue converts *time.Time into a driver-friendly value.
func timePtrValue(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
