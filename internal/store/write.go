package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/dscodec/internal/codecerr"
	"github.com/roach88/dscodec/internal/entity"
	"github.com/roach88/dscodec/internal/key"
	"github.com/roach88/dscodec/internal/value"
)

// PutResult describes a stored entity.
type PutResult struct {
	// Key is the stored key. For an incomplete input key it carries the
	// allocated id.
	Key      *key.Key
	Revision string
	// Changed is false when the stored body was already identical.
	Changed bool
}

// Put encodes rec and stores it under k.
//
// An incomplete key gets the next numeric id of its (namespace, kind); its
// ancestors must be complete. Explicit ids advance the sequence so allocated
// ids never collide with them. Writing an identical body keeps the existing
// revision.
func (s *Store) Put(ctx context.Context, k *key.Key, rec value.Record) (PutResult, error) {
	start := time.Now()
	res, err := s.put(ctx, k, rec)
	s.log.LogStoreOperation("put", time.Since(start), 1, err)
	if err != nil {
		return PutResult{}, fmt.Errorf("put: %w", err)
	}
	return res, nil
}

func (s *Store) put(ctx context.Context, k *key.Key, rec value.Record) (PutResult, error) {
	if k == nil {
		return PutResult{}, codecerr.MalformedKey("key is nil")
	}
	if k.Parent != nil && !key.IsComplete(k.Parent) {
		return PutResult{}, codecerr.MalformedKey("ancestor %s of %s has no identifier", k.Parent, k.Kind)
	}

	e, err := entity.ToProto(rec)
	if err != nil {
		return PutResult{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PutResult{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	stored := *k
	if !key.IsComplete(k) {
		id, err := allocateID(ctx, tx, k.Namespace, k.Kind)
		if err != nil {
			return PutResult{}, err
		}
		stored.ID = id
		s.log.StoreLogger("allocate").Debug("allocated id").
			Str("kind", k.Kind).
			Int64("id", id).
			Send()
	} else if k.ID != 0 {
		if err := advanceSequence(ctx, tx, k.Namespace, k.Kind, k.ID); err != nil {
			return PutResult{}, err
		}
	}

	path, err := marshalKey(&stored)
	if err != nil {
		return PutResult{}, err
	}
	if e, err = entity.WithKey(e, &stored); err != nil {
		return PutResult{}, err
	}
	body, digest, err := marshalEntity(e)
	if err != nil {
		return PutResult{}, err
	}

	var existingDigest, existingRevision string
	err = tx.QueryRowContext(ctx,
		`SELECT digest, revision FROM entities WHERE path = ?`, path,
	).Scan(&existingDigest, &existingRevision)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return PutResult{}, fmt.Errorf("read existing: %w", err)
	case existingDigest == digest:
		if err := tx.Commit(); err != nil {
			return PutResult{}, fmt.Errorf("commit: %w", err)
		}
		return PutResult{Key: &stored, Revision: existingRevision, Changed: false}, nil
	}

	rev, err := uuid.NewV7()
	if err != nil {
		return PutResult{}, fmt.Errorf("revision: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO entities (path, namespace, kind, body, digest, revision)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			body = excluded.body,
			digest = excluded.digest,
			revision = excluded.revision
	`,
		path,
		stored.Namespace,
		stored.Kind,
		body,
		digest,
		rev.String(),
	)
	if err != nil {
		return PutResult{}, fmt.Errorf("write entity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return PutResult{}, fmt.Errorf("commit: %w", err)
	}

	return PutResult{Key: &stored, Revision: rev.String(), Changed: true}, nil
}

// allocateID returns the next id of (namespace, kind) and advances the sequence.
func allocateID(ctx context.Context, tx *sql.Tx, namespace, kind string) (int64, error) {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO id_sequences (namespace, kind, next_id)
		VALUES (?, ?, 1)
		ON CONFLICT(namespace, kind) DO NOTHING
	`, namespace, kind)
	if err != nil {
		return 0, fmt.Errorf("allocate id: %w", err)
	}

	var id int64
	if err := tx.QueryRowContext(ctx,
		`SELECT next_id FROM id_sequences WHERE namespace = ? AND kind = ?`,
		namespace, kind,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("allocate id: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE id_sequences SET next_id = ? WHERE namespace = ? AND kind = ?`,
		id+1, namespace, kind,
	); err != nil {
		return 0, fmt.Errorf("allocate id: %w", err)
	}

	return id, nil
}

// advanceSequence moves the sequence of (namespace, kind) past id.
func advanceSequence(ctx context.Context, tx *sql.Tx, namespace, kind string, id int64) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO id_sequences (namespace, kind, next_id)
		VALUES (?, ?, ?)
		ON CONFLICT(namespace, kind) DO UPDATE SET
			next_id = MAX(next_id, excluded.next_id)
	`, namespace, kind, id+1)
	if err != nil {
		return fmt.Errorf("advance sequence: %w", err)
	}
	return nil
}

// Delete removes the entity stored under k. It reports whether a row existed.
func (s *Store) Delete(ctx context.Context, k *key.Key) (bool, error) {
	start := time.Now()

	path, err := marshalKey(k)
	if err != nil {
		return false, fmt.Errorf("delete: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM entities WHERE path = ?`, path)
	if err != nil {
		s.log.LogStoreOperation("delete", time.Since(start), 0, err)
		return false, fmt.Errorf("delete: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete: rows affected: %w", err)
	}

	s.log.LogStoreOperation("delete", time.Since(start), int(n), nil)
	return n > 0, nil
}
