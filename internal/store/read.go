package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lafritemema/MARS-data-build/internal/ir"
)

const sequenceColumns = `id, shape_hash, action_type, description, command_count, compiler_version, ir_version, seq`

// ReadSequence retrieves a sequence and its commands by id.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadSequence(ctx context.Context, id string) (Sequence, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+sequenceColumns+`
		FROM sequences
		WHERE id = ?
	`, id)

	seq, err := scanSequence(row)
	if err != nil {
		return Sequence{}, err
	}

	seq.Commands, err = s.readCommands(ctx, id)
	if err != nil {
		return Sequence{}, err
	}
	return seq, nil
}

// readCommands returns the commands of a sequence in execution order.
func (s *Store) readCommands(ctx context.Context, sequenceID string) ([]ir.Command, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT origin, action, description, definition
		FROM commands
		WHERE sequence_id = ?
		ORDER BY position ASC
	`, sequenceID)
	if err != nil {
		return nil, fmt.Errorf("query commands: %w", err)
	}
	defer rows.Close()

	cmds := []ir.Command{}
	for rows.Next() {
		var origin, action, description, definition string
		if err := rows.Scan(&origin, &action, &description, &definition); err != nil {
			return nil, fmt.Errorf("scan command: %w", err)
		}
		def, err := unmarshalDefinition(ir.Origin(origin), ir.CommandAction(action), definition)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, ir.Command{
			Origin:      ir.Origin(origin),
			Action:      ir.CommandAction(action),
			Description: description,
			Definition:  def,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate commands: %w", err)
	}
	return cmds, nil
}

// ListSequences returns every stored sequence without its commands,
// ordered by seq ASC, id ASC.
//
// Returns an empty slice (not nil) if the store is empty.
func (s *Store) ListSequences(ctx context.Context) ([]Sequence, error) {
	return s.querySequences(ctx, `
		SELECT `+sequenceColumns+`
		FROM sequences
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
}

// SequencesWithShape returns the sequences sharing a shape hash, i.e. every
// stored compilation of the same input.
func (s *Store) SequencesWithShape(ctx context.Context, shapeHash string) ([]Sequence, error) {
	return s.querySequences(ctx, `
		SELECT `+sequenceColumns+`
		FROM sequences
		WHERE shape_hash = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, shapeHash)
}

func (s *Store) querySequences(ctx context.Context, query string, args ...any) ([]Sequence, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sequences: %w", err)
	}
	defer rows.Close()

	seqs := []Sequence{}
	for rows.Next() {
		seq, err := scanSequence(rows)
		if err != nil {
			return nil, err
		}
		seqs = append(seqs, seq)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sequences: %w", err)
	}
	return seqs, nil
}

// ReadTracker retrieves a tracker by uid. When several stored sequences
// reuse a uid, the most recently written one wins.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadTracker(ctx context.Context, uid string) (Tracker, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT t.uid, t.sequence_id, t.position, t.wait_position, t.kind, t.path, t.reg, t.interval_ms
		FROM trackers t
		JOIN sequences s ON t.sequence_id = s.id
		WHERE t.uid = ?
		ORDER BY s.seq DESC
		LIMIT 1
	`, uid)

	var t Tracker
	var wait sql.NullInt64
	err := row.Scan(&t.UID, &t.SequenceID, &t.Position, &wait, &t.Kind, &t.Path, &t.Reg, &t.IntervalMs)
	if err != nil {
		return Tracker{}, err
	}
	t.WaitPosition = -1
	if wait.Valid {
		t.WaitPosition = int(wait.Int64)
	}
	return t, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSequence(row scanner) (Sequence, error) {
	var seq Sequence
	err := row.Scan(
		&seq.ID,
		&seq.ShapeHash,
		&seq.ActionType,
		&seq.Description,
		&seq.CommandCount,
		&seq.CompilerVersion,
		&seq.IRVersion,
		&seq.Seq,
	)
	if err != nil {
		return Sequence{}, err
	}
	return seq, nil
}
