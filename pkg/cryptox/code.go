package cryptox

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// GenerateCode returns a random string of length n drawn uniformly from
// alphabet.
func GenerateCode(alphabet string, n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("code length must be positive, got %d", n)
	}
	code, err := gonanoid.Generate(alphabet, n)
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return code, nil
}

// NormalizeCode trims whitespace and upper-cases a user-typed code.
func NormalizeCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
