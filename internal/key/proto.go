package key

import (
	"github.com/roach88/dscodec/internal/codecerr"
	"github.com/roach88/dscodec/internal/wire"
)

// ToProto converts a key to its wire form.
//
// Fails with MALFORMED_KEY when any segment lacks a kind, carries both an id
// and a name, or is an ancestor without an identifier. The partition id is
// emitted only when the key has a namespace.
func ToProto(k *Key) (wire.Key, error) {
	if k == nil {
		return wire.Key{}, codecerr.MalformedKey("key is nil")
	}

	chain := k.ancestry()
	elems := make([]wire.PathElement, 0, len(chain))
	for i, seg := range chain {
		if seg.Kind == "" {
			return wire.Key{}, codecerr.MalformedKey("path element %d has no kind", i)
		}

		el := wire.PathElement{Kind: seg.Kind}
		switch {
		case seg.ID != 0 && seg.Name != "":
			return wire.Key{}, codecerr.MalformedKey("%s has both id %d and name %q", seg.Kind, seg.ID, seg.Name)
		case seg.ID != 0:
			id := wire.Int64(seg.ID)
			el.ID = &id
		case seg.Name != "":
			name := seg.Name
			el.Name = &name
		case i < len(chain)-1:
			return wire.Key{}, codecerr.MalformedKey("ancestor %s has no id or name", seg.Kind)
		}
		elems = append(elems, el)
	}

	pk := wire.Key{PathElement: elems}
	if k.Namespace != "" {
		pk.PartitionID = &wire.PartitionID{Namespace: k.Namespace}
	}
	return pk, nil
}

// FromProto converts a wire key back into a Key.
// An ancestor element without id or name fails with MALFORMED_KEY.
func FromProto(pk wire.Key) (*Key, error) {
	if len(pk.PathElement) == 0 {
		return nil, codecerr.MalformedKey("key has no path elements")
	}

	var namespace string
	if pk.PartitionID != nil {
		namespace = pk.PartitionID.Namespace
	}

	last := len(pk.PathElement) - 1
	path := make([]any, 0, 2*len(pk.PathElement))
	for i, el := range pk.PathElement {
		path = append(path, el.Kind)
		switch {
		case el.ID != nil:
			path = append(path, int64(*el.ID))
		case el.Name != nil:
			path = append(path, *el.Name)
		case i < last:
			return nil, codecerr.MalformedKey("ancestor %s has no id or name", el.Kind)
		}
	}

	return Build(Options{Namespace: namespace, Path: path})
}

// IsComplete reports whether every segment of k has a kind and an identifier.
// Conversion failures count as incomplete; this predicate never fails.
func IsComplete(k *Key) bool {
	pk, err := ToProto(k)
	if err != nil {
		return false
	}
	for _, el := range pk.PathElement {
		if el.Kind == "" || !el.HasIdentifier() {
			return false
		}
	}
	return true
}
