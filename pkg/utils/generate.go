package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

func GenerateUUID() uuid.UUID {
	return uuid.New()
}

func ParseUUID(uuidStr string) (uuid.UUID, error) {
	return uuid.Parse(uuidStr)
}

// GenerateHoldToken returns the opaque token handed to the client for the
// lifetime of a seat hold.
func GenerateHoldToken() uuid.UUID {
	return uuid.New()
}

// GenerateBookingID creates the public-facing booking reference.
// Format: BOOK-YYYYMMDD-HHMMSS-RANDOM
func GenerateBookingID() string {
	now := time.Now()

	datePart := now.Format("20060102")
	timePart := now.Format("150405")
	randomPart := fmt.Sprintf("%04d", rand.Intn(10000))

	return fmt.Sprintf("BOOK-%s-%s-%s", datePart, timePart, randomPart)
}
