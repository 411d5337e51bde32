package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/dscodec/internal/key"
	"github.com/roach88/dscodec/internal/wire"
)

// Get returns the entity stored under k in its protocol result form.
// The boolean is false when no entity exists.
func (s *Store) Get(ctx context.Context, k *key.Key) (wire.EntityResult, bool, error) {
	path, err := marshalKey(k)
	if err != nil {
		return wire.EntityResult{}, false, fmt.Errorf("get: %w", err)
	}

	var body string
	err = s.db.QueryRowContext(ctx, `SELECT body FROM entities WHERE path = ?`, path).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return wire.EntityResult{}, false, nil
	}
	if err != nil {
		return wire.EntityResult{}, false, fmt.Errorf("get: %w", err)
	}

	e, err := unmarshalEntity(body)
	if err != nil {
		return wire.EntityResult{}, false, fmt.Errorf("get: %w", err)
	}
	return wire.EntityResult{Entity: e}, true, nil
}

// Lookup fetches several keys at once. Found results keep the order of keys;
// keys with no stored entity are returned in missing.
//
// Returns empty slices (not nil) when nothing is found or missing.
func (s *Store) Lookup(ctx context.Context, keys []*key.Key) (found []wire.EntityResult, missing []*key.Key, err error) {
	start := time.Now()
	defer func() {
		s.log.LogStoreOperation("lookup", time.Since(start), len(found), err)
	}()

	found = []wire.EntityResult{}
	missing = []*key.Key{}
	for _, k := range keys {
		res, ok, err := s.Get(ctx, k)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			found = append(found, res)
		} else {
			missing = append(missing, k)
		}
	}
	return found, missing, nil
}

// List returns every entity of a kind in a namespace, ordered by key path.
//
// Returns an empty slice (not nil) if no entities exist.
func (s *Store) List(ctx context.Context, namespace, kind string) ([]wire.EntityResult, error) {
	start := time.Now()

	rows, err := s.db.QueryContext(ctx, `
		SELECT body
		FROM entities
		WHERE namespace = ? AND kind = ?
		ORDER BY path COLLATE BINARY ASC
	`, namespace, kind)
	if err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}
	defer rows.Close()

	results := []wire.EntityResult{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan entity: %w", err)
		}
		e, err := unmarshalEntity(body)
		if err != nil {
			return nil, err
		}
		results = append(results, wire.EntityResult{Entity: e})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entities: %w", err)
	}

	s.log.LogStoreOperation("list", time.Since(start), len(results), nil)
	return results, nil
}
