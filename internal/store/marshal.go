package store

import (
	"fmt"

	"github.com/roach88/dscodec/internal/key"
	"github.com/roach88/dscodec/internal/wire"
)

// marshalKey converts a key to its storage path: the canonical JSON of its
// wire form. Equal keys always produce the same path.
func marshalKey(k *key.Key) (string, error) {
	pk, err := key.ToProto(k)
	if err != nil {
		return "", err
	}
	data, err := wire.MarshalCanonical(pk)
	if err != nil {
		return "", fmt.Errorf("marshal key: %w", err)
	}
	return string(data), nil
}

// marshalEntity returns the canonical body and digest of a wire entity.
func marshalEntity(e wire.Entity) (body, digest string, err error) {
	data, err := wire.MarshalCanonical(e)
	if err != nil {
		return "", "", fmt.Errorf("marshal entity: %w", err)
	}
	digest, err = wire.EntityDigest(e)
	if err != nil {
		return "", "", fmt.Errorf("digest entity: %w", err)
	}
	return string(data), digest, nil
}

// unmarshalEntity parses a stored body.
func unmarshalEntity(body string) (wire.Entity, error) {
	e, err := wire.ParseEntity([]byte(body))
	if err != nil {
		return wire.Entity{}, fmt.Errorf("unmarshal entity: %w", err)
	}
	return e, nil
}
