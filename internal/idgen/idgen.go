// Package idgen provides short, URL-safe unique ID generation backed by nanoid.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes for the kinds of IDs riskd hands out.
const (
	PrefixRequest = "req-"
	PrefixExport  = "exp-"
)

// Alphabet defines the character set used for the random portion of the ID.
var Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the number of random characters generated (excluding the prefix).
var Length = 12

// GenerateWithPrefix returns a new unique ID with the given prefix.
func GenerateWithPrefix(prefix string) (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}

// RequestID returns a new request ID. Generation failures are vanishingly
// rare; an empty string is returned in that case so callers can proceed
// without one.
func RequestID() string {
	id, err := GenerateWithPrefix(PrefixRequest)
	if err != nil {
		return ""
	}
	return id
}

// ExportID returns a new export ID.
func ExportID() (string, error) {
	return GenerateWithPrefix(PrefixExport)
}
