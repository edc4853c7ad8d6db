package utils

import "github.com/google/uuid"

// GenerateID returns a new random identifier for jobs and temporary files.
func GenerateID() string {
	return uuid.New().String()
}
