// Package utils holds small helpers shared by every module of the
// suite.
package utils

import (
	"log"

	"github.com/google/uuid"
)

// GenerateID returns a random UUID for use as an entity primary key.
// All suite tables key on these rather than auto-increment ids.
func GenerateID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		log.Printf("uuid generation failed: %v", err)
		return ""
	}
	return id.String()
}

// IsValidUUID reports whether u parses as a UUID.
func IsValidUUID(u string) bool {
	_, err := uuid.Parse(u)
	return err == nil
}
