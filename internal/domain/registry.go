package domain

import "github.com/opencontainers/go-digest"

// ManifestReference identifies a tagged manifest in the upstream registry.
type ManifestReference struct {
	Repository string
	Tag        string
}

// DeletedManifest is the outcome of a delete-by-tag request.
type DeletedManifest struct {
	ManifestReference
	Digest digest.Digest
}
