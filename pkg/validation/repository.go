// Package validation provides input validation for values that end up in
// registry URLs or on a docker command line.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// Repository name validation per Docker spec:
// - Lowercase letters, digits, and separators (., _, -)
// - Separators must not be adjacent and cannot start/end the name
// - Allows nested paths like "myorg/myapp"
var repoNameRegex = regexp.MustCompile(`^[a-z0-9]+(?:[._-][a-z0-9]+)*(?:/[a-z0-9]+(?:[._-][a-z0-9]+)*)*$`)

// Tag validation per Docker spec:
// - Case-sensitive alphanumeric (both uppercase and lowercase allowed)
// - Dots, underscores, and hyphens allowed after first character
// - Must start with an alphanumeric character
// - Max 128 characters
var tagRegex = regexp.MustCompile(`^[a-zA-Z0-9_][a-zA-Z0-9._-]{0,127}$`)

// MaxRepositoryNameLength is the maximum allowed length for repository names.
const MaxRepositoryNameLength = 256

// ValidateRepositoryName validates a Docker repository name.
// Returns an error if the name is invalid or could escape the manifest URL.
func ValidateRepositoryName(name string) error {
	if name == "" {
		return fmt.Errorf("repository name cannot be empty")
	}

	if len(name) > MaxRepositoryNameLength {
		return fmt.Errorf("repository name too long: %d chars (max %d)", len(name), MaxRepositoryNameLength)
	}

	if strings.Contains(name, "..") {
		return fmt.Errorf("repository name contains path traversal sequence")
	}

	if !repoNameRegex.MatchString(name) {
		return fmt.Errorf("invalid repository name format: must contain only lowercase letters, digits, and separators (., _, -)")
	}

	return nil
}

// ValidateTag validates a Docker tag. Digests are rejected: deletes are
// requested by tag and resolved to a digest upstream.
func ValidateTag(tag string) error {
	if tag == "" {
		return fmt.Errorf("tag cannot be empty")
	}

	if !tagRegex.MatchString(tag) {
		return fmt.Errorf("invalid tag format: %q", tag)
	}

	return nil
}
