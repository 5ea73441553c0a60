package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GenerateResourceID mints an opaque identifier for a published resource.
func GenerateResourceID() string {
	return "res_" + uuid.New().String()
}

// GenerateLocator mints the blob store key for a new upload.
func GenerateLocator() string {
	return uuid.New().String()
}

// GenerateRequestID generates a unique request ID for log correlation.
func GenerateRequestID() string {
	b := make([]byte, 4)
	rand.Read(b)
	return fmt.Sprintf("req_%d_%s", time.Now().UnixNano(), hex.EncodeToString(b))
}
