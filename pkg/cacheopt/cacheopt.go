// Package cacheopt parses the --cache-from / --cache-to grammar
// spec.md §6 names: either a bare "user/app:tag" registry shorthand,
// or a comma-separated key=value attribute list with a required
// "type". Grounded on docker/buildx's own `--cache-from`/`--cache-to`
// flag shape (buildflags.ParseCacheEntry, cmd/build.go) and emitting
// moby/buildkit's own client.CacheOptionsEntry — peelbox reuses the
// builder's own option type rather than inventing a parallel one,
// since the session hands these directly to the solve request (spec.md
// §4.B2/B5).
package cacheopt

import (
	"strings"

	"github.com/moby/buildkit/client"
	"github.com/pkg/errors"
)

// Direction distinguishes --cache-from (Import) from --cache-to
// (Export); the two validate different required attributes for the
// same type (spec.md §6: "type=local requires src (import) or dest
// (export)").
type Direction int

const (
	Import Direction = iota
	Export
)

// knownTypes is the closed set spec.md §6 names.
var knownTypes = map[string]bool{
	"registry": true,
	"local":    true,
	"gha":      true,
	"s3":       true,
	"azblob":   true,
	"inline":   true,
}

// Parse converts one --cache-from/--cache-to value into a
// client.CacheOptionsEntry, or returns a perr.InputInvalid-flavored
// error (wrapped, not typed, since this is a pure syntactic concern
// the CLI surfaces directly as InputInvalid).
func Parse(raw string, dir Direction) (client.CacheOptionsEntry, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return client.CacheOptionsEntry{}, errors.New("empty cache option")
	}

	if !strings.Contains(raw, "=") {
		// "user/app:tag" shorthand.
		return client.CacheOptionsEntry{
			Type:  "registry",
			Attrs: map[string]string{"ref": raw},
		}, nil
	}

	attrs := make(map[string]string)
	for _, field := range strings.Split(raw, ",") {
		k, v, ok := strings.Cut(field, "=")
		if !ok {
			return client.CacheOptionsEntry{}, errors.Errorf("invalid cache option field %q: expected key=value", field)
		}
		attrs[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}

	typ, ok := attrs["type"]
	if !ok {
		return client.CacheOptionsEntry{}, errors.Errorf("cache option %q missing required \"type\" attribute", raw)
	}
	if !knownTypes[typ] {
		return client.CacheOptionsEntry{}, errors.Errorf("cache option %q: unknown type %q", raw, typ)
	}
	delete(attrs, "type")

	if err := validate(typ, attrs, dir); err != nil {
		return client.CacheOptionsEntry{}, errors.Wrapf(err, "cache option %q", raw)
	}

	return client.CacheOptionsEntry{Type: typ, Attrs: attrs}, nil
}

// ParseAll parses every value in raws, in order, for one direction.
func ParseAll(raws []string, dir Direction) ([]client.CacheOptionsEntry, error) {
	out := make([]client.CacheOptionsEntry, 0, len(raws))
	for _, raw := range raws {
		entry, err := Parse(raw, dir)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}

func validate(typ string, attrs map[string]string, dir Direction) error {
	switch typ {
	case "registry":
		if attrs["ref"] == "" {
			return errors.New("type=registry requires \"ref\"")
		}
	case "local":
		switch dir {
		case Import:
			if attrs["src"] == "" {
				return errors.New("type=local cache-from requires \"src\"")
			}
		case Export:
			if attrs["dest"] == "" {
				return errors.New("type=local cache-to requires \"dest\"")
			}
		}
	}
	return nil
}
