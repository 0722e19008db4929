package validation

import (
	"fmt"
	"strings"

	"github.com/distribution/reference"
)

// ValidateImage checks that image is a pullable name[:tag] reference that can
// be re-tagged under another registry host. Digest references are rejected
// because the destination of a push must be a tag.
func ValidateImage(image string) error {
	if strings.TrimSpace(image) == "" {
		return fmt.Errorf("image cannot be empty")
	}
	if strings.HasPrefix(image, "-") {
		return fmt.Errorf("image must not start with '-'")
	}

	named, err := reference.ParseNormalizedNamed(image)
	if err != nil {
		return fmt.Errorf("invalid image reference %q: %w", image, err)
	}
	if _, ok := named.(reference.Digested); ok {
		return fmt.Errorf("digest references cannot be pushed: %q", image)
	}

	return nil
}

// DestinationReference prefixes image with the registry host it is pushed to.
func DestinationReference(registryHost, image string) string {
	return strings.TrimSuffix(registryHost, "/") + "/" + image
}
