package services

import (
	"github.com/atlaserp/backend/pkg/errors"
)

const defaultPageSize = 50

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 200 {
		return defaultPageSize
	}
	return limit
}

// filterUpdates keeps only known columns from a client-supplied partial
// update map and rejects unknown keys.
func filterUpdates(updates map[string]interface{}, allowed ...string) (map[string]interface{}, error) {
	allowedSet := make(map[string]bool, len(allowed))
	for _, k := range allowed {
		allowedSet[k] = true
	}

	filtered := make(map[string]interface{}, len(updates))
	for k, v := range updates {
		if !allowedSet[k] {
			return nil, errors.NewValidationError(k, "Unknown or immutable field")
		}
		filtered[k] = v
	}
	if len(filtered) == 0 {
		return nil, errors.NewValidationError("", "No fields to update")
	}
	return filtered, nil
}
