// Package key implements hierarchical keys: construction from a flat path,
// path derivation, completeness, and conversion to and from wire.Key.
package key

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/dscodec/internal/codecerr"
)

// Key addresses a record in the store hierarchy.
//
// At most one of ID and Name is set; zero values mean unset. A key with
// neither is incomplete and may only appear as the innermost segment.
// Parent is exclusively owned by this key.
type Key struct {
	Namespace string
	Kind      string
	ID        int64
	Name      string
	Parent    *Key
}

// Options describes a key to build.
type Options struct {
	Namespace string
	// Path is a flat sequence of kind/identifier pairs, innermost segment
	// last. A trailing bare kind makes the key incomplete. Identifiers are
	// strings (names) or integers (ids).
	Path []any
}

// Build constructs a key from a flat path. The path is copied; the caller's
// slice is not modified. Ancestors inherit the namespace.
func Build(opts Options) (*Key, error) {
	if len(opts.Path) == 0 {
		return nil, codecerr.MalformedKey("path is empty: a kind is required")
	}
	return build(opts.Namespace, slices.Clone(opts.Path))
}

// MustBuild is like Build but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustBuild(namespace string, path ...any) *Key {
	k, err := Build(Options{Namespace: namespace, Path: path})
	if err != nil {
		panic(err)
	}
	return k
}

// build consumes path from the tail: identifier (when the remaining length is
// even), then kind, then recurses into the parent.
func build(namespace string, path []any) (*Key, error) {
	k := &Key{Namespace: namespace}

	if len(path)%2 == 0 {
		if err := k.setIdentifier(path[len(path)-1]); err != nil {
			return nil, err
		}
		path = path[:len(path)-1]
	}

	kind, ok := path[len(path)-1].(string)
	if !ok {
		return nil, codecerr.MalformedKey("kind must be a string, got %T", path[len(path)-1])
	}
	if kind == "" {
		return nil, codecerr.MalformedKey("kind is required")
	}
	k.Kind = kind
	path = path[:len(path)-1]

	if len(path) > 0 {
		parent, err := build(namespace, path)
		if err != nil {
			return nil, err
		}
		k.Parent = parent
	}
	return k, nil
}

// setIdentifier assigns a numeric identifier to ID and a string to Name.
func (k *Key) setIdentifier(v any) error {
	switch id := v.(type) {
	case string:
		if id == "" {
			return codecerr.MalformedKey("name of %v must not be empty", v)
		}
		k.Name = id
		return nil
	case float64:
		if id != math.Trunc(id) || math.Abs(id) > math.MaxInt64 {
			return codecerr.MalformedKey("id %v is not an integer", id)
		}
		return k.setID(int64(id))
	case int:
		return k.setID(int64(id))
	case int32:
		return k.setID(int64(id))
	case int64:
		return k.setID(id)
	case uint32:
		return k.setID(int64(id))
	default:
		return codecerr.MalformedKey("identifier must be a string or integer, got %T", v)
	}
}

func (k *Key) setID(id int64) error {
	if id == 0 {
		return codecerr.MalformedKey("id must be non-zero")
	}
	k.ID = id
	return nil
}

// identifier returns the id or name of this segment, or nil when incomplete.
func (k *Key) identifier() any {
	switch {
	case k.ID != 0:
		return k.ID
	case k.Name != "":
		return k.Name
	default:
		return nil
	}
}

// Path returns the parent's path followed by this key's kind and identifier.
// It is recomputed on every call, so reassigned fields are reflected.
func (k *Key) Path() []any {
	var path []any
	if k.Parent != nil {
		path = k.Parent.Path()
	}
	path = append(path, k.Kind)
	if id := k.identifier(); id != nil {
		path = append(path, id)
	}
	return path
}

// ancestry returns the chain of keys from the root ancestor to k.
func (k *Key) ancestry() []*Key {
	var chain []*Key
	for cur := k; cur != nil; cur = cur.Parent {
		chain = append(chain, cur)
	}
	slices.Reverse(chain)
	return chain
}

// String renders the key as Kind:identifier segments joined by "/".
// An incomplete innermost segment renders as its bare kind.
func (k *Key) String() string {
	if k == nil {
		return "<nil>"
	}
	parts := make([]string, 0, 4)
	for _, seg := range k.ancestry() {
		if id := seg.identifier(); id != nil {
			parts = append(parts, fmt.Sprintf("%s:%v", seg.Kind, id))
		} else {
			parts = append(parts, seg.Kind)
		}
	}
	s := strings.Join(parts, "/")
	if k.Namespace != "" {
		s = k.Namespace + "|" + s
	}
	return s
}

// Equal reports whether a and b have the same namespace and path.
func Equal(a, b *Key) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Namespace == b.Namespace && slices.Equal(a.Path(), b.Path())
}

// ParsePath converts command-line tokens to a path. Tokens in identifier
// position that are base-10 integers become ids; everything else is a string.
func ParsePath(tokens []string) []any {
	path := make([]any, len(tokens))
	for i, tok := range tokens {
		path[i] = tok
		if i%2 == 1 {
			if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
				path[i] = n
			}
		}
	}
	return path
}

// MarshalText implements encoding.TextMarshaler using String.
func (k *Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
