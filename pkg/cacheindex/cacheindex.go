// Package cacheindex implements the Build Session's on-disk cache
// index (spec.md §4.B6): an OCI-style index.json per cache key under
// PEELBOX_CACHE_DIR, sharing one content-addressed blobs/ directory.
//
// An index is a v1.IndexManifest{SchemaVersion: 2, MediaType:
// types.OCIImageIndex, Manifests: ...}, JSON-encoded to a file under
// the cache root. The per-manifest "org.opencontainers.image.ref.name"
// annotation convention is the same one go-containerregistry and the
// OCI image-spec's own AnnotationRefName document.
package cacheindex

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"

	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/types"
	imgspecv1 "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/pkg/errors"

	"github.com/peelbox/peelbox/pkg/perr"
)

// BlobsDir is the shared content-addressed directory name under the
// cache root, common to every cache key (spec.md §4.B6 layout).
const BlobsDir = "blobs"

// DefaultRef is the tag name the cache index annotates its current
// manifest with absent an explicit ref (spec.md §4.B6 get_digest).
const DefaultRef = "latest"

// Filename returns the index file name for a cache key. An empty key
// selects legacy single-index mode ("index.json"); any other value
// selects the per-app index ("index-<key>.json").
func Filename(cacheKey string) string {
	if cacheKey == "" {
		return "index.json"
	}
	return "index-" + cacheKey + ".json"
}

// CacheKey derives the per-app cache key spec.md §4.B6 defines:
// hex(sha256(canon(contextPath) + ":" + appNameOrSpecPath))[:16].
// appNameOrSpecPath is the build's app name when known, falling back
// to the spec file's path when the build was invoked without one
// (spec.md §6 --spec/--service), so two unnamed specs built from the
// same context path but different spec files don't collide.
func CacheKey(contextPath, appNameOrSpecPath string) string {
	canon, err := filepath.Abs(contextPath)
	if err != nil {
		canon = filepath.Clean(contextPath)
	}
	canon = filepath.ToSlash(canon)
	sum := sha256.Sum256([]byte(canon + ":" + appNameOrSpecPath))
	return hex.EncodeToString(sum[:])[:16]
}

// EnsureLayout creates the cache root and its shared blobs directory.
func EnsureLayout(cacheDir string) error {
	if err := os.MkdirAll(filepath.Join(cacheDir, BlobsDir), 0o755); err != nil {
		return errors.Wrap(err, "cannot create cache blobs directory")
	}
	return nil
}

// Write serializes manifests as an OCI-style index under cacheDir,
// keyed by cacheKey (empty for the legacy single-index file), using
// 2-space-indented JSON.
func Write(cacheDir, cacheKey string, manifests []v1.Descriptor) error {
	index := v1.IndexManifest{
		SchemaVersion: 2,
		MediaType:     types.OCIImageIndex,
		Manifests:     manifests,
	}

	path := filepath.Join(cacheDir, Filename(cacheKey))
	f, err := os.Create(path)
	if err != nil {
		return perr.CachePersistError{Path: path, Cause: err}
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(index); err != nil {
		return perr.CachePersistError{Path: path, Cause: err}
	}
	return nil
}

// ReadWithKey deserializes the index for cacheKey (empty for legacy
// single-index mode). A missing file is reported via
// perr.CachePersistError so callers can apply spec.md §7's policy
// ("Warn, proceed; never fatal") rather than treating a first-ever
// build as an error.
func ReadWithKey(cacheDir, cacheKey string) (v1.IndexManifest, error) {
	path := filepath.Join(cacheDir, Filename(cacheKey))
	bb, err := os.ReadFile(path)
	if err != nil {
		return v1.IndexManifest{}, perr.CachePersistError{Path: path, Cause: err}
	}
	var index v1.IndexManifest
	if err := json.Unmarshal(bb, &index); err != nil {
		return v1.IndexManifest{}, perr.CachePersistError{Path: path, Cause: err}
	}
	return index, nil
}

// GetDigest returns the digest of the manifest annotated with ref
// (spec.md §4.B6 get_digest; ref defaults to "latest"). The bool is
// false when no manifest carries that ref annotation.
func GetDigest(index v1.IndexManifest, ref string) (string, bool) {
	if ref == "" {
		ref = DefaultRef
	}
	for _, m := range index.Manifests {
		if m.Annotations[imgspecv1.AnnotationRefName] == ref {
			return m.Digest.String(), true
		}
	}
	return "", false
}

// NewDescriptor builds the v1.Descriptor Write expects for one
// manifest, annotated with ref the way get_digest looks it back up by.
func NewDescriptor(mediaType types.MediaType, digest v1.Hash, size int64, ref string) v1.Descriptor {
	if ref == "" {
		ref = DefaultRef
	}
	return v1.Descriptor{
		MediaType: mediaType,
		Digest:    digest,
		Size:      size,
		Annotations: map[string]string{
			imgspecv1.AnnotationRefName: ref,
		},
	}
}
