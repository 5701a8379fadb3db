package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// WriteSequence stores a sequence with its commands and trackers in one
// transaction and returns whether a new row was inserted.
//
// Uses ON CONFLICT(id) DO NOTHING for idempotency: writing the same
// sequence twice leaves the first copy untouched and returns false.
// seq.Seq is ignored; the store assigns the next logical clock value.
func (s *Store) WriteSequence(ctx context.Context, seq Sequence) (inserted bool, err error) {
	if seq.ID == "" {
		return false, fmt.Errorf("write sequence: empty id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("write sequence: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var next int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM sequences`).Scan(&next); err != nil {
		return false, fmt.Errorf("write sequence: next seq: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO sequences
		(id, shape_hash, action_type, description, command_count, compiler_version, ir_version, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		seq.ID,
		seq.ShapeHash,
		seq.ActionType,
		seq.Description,
		len(seq.Commands),
		seq.CompilerVersion,
		seq.IRVersion,
		next,
	)
	if err != nil {
		return false, fmt.Errorf("write sequence: insert: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write sequence: rows affected: %w", err)
	}
	if rowsAffected == 0 {
		slog.Debug("sequence already stored", "id", seq.ID)
		return false, tx.Commit()
	}

	if err := writeCommands(ctx, tx, seq); err != nil {
		return false, err
	}
	if err := writeTrackers(ctx, tx, seq); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("write sequence: commit: %w", err)
	}

	slog.Debug("sequence stored", "id", seq.ID, "seq", next, "commands", len(seq.Commands))
	return true, nil
}

func writeCommands(ctx context.Context, tx *sql.Tx, seq Sequence) error {
	for i, c := range seq.Commands {
		def, err := marshalDefinition(c.Definition)
		if err != nil {
			return fmt.Errorf("write sequence: command %d: %w", i, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO commands
			(sequence_id, position, origin, action, description, definition)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			seq.ID,
			i,
			string(c.Origin),
			string(c.Action),
			c.Description,
			def,
		)
		if err != nil {
			return fmt.Errorf("write sequence: command %d: %w", i, err)
		}
	}
	return nil
}

func writeTrackers(ctx context.Context, tx *sql.Tx, seq Sequence) error {
	for _, t := range trackersOf(seq.ID, seq.Commands) {
		var wait sql.NullInt64
		if t.WaitPosition >= 0 {
			wait = sql.NullInt64{Int64: int64(t.WaitPosition), Valid: true}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO trackers
			(sequence_id, uid, position, wait_position, kind, path, reg, interval_ms)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			t.SequenceID,
			t.UID,
			t.Position,
			wait,
			t.Kind,
			t.Path,
			t.Reg,
			t.IntervalMs,
		)
		if err != nil {
			return fmt.Errorf("write sequence: tracker %s: %w", t.UID, err)
		}
	}
	return nil
}
