// Package snapshot reads input snapshots and writes ranking results as JSON.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/draftedge/farmline/internal/domain/model"
)

// Load reads and validates an input snapshot from path.
func Load(ctx context.Context, path string) (*model.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadSnapshot, err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

// Decode parses a snapshot from r and validates it.
func Decode(r io.Reader) (*model.Snapshot, error) {
	var snap model.Snapshot
	dec := json.NewDecoder(r)
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}
	if err := validate(&snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// validate rejects only structurally unusable input. Per-prospect data
// problems are the engine's job to degrade around, not the loader's to
// refuse.
func validate(snap *model.Snapshot) error {
	if snap.Season <= 0 {
		return fmt.Errorf("%w: season missing", ErrBadSnapshot)
	}
	if len(snap.Prospects) == 0 {
		return fmt.Errorf("%w: no prospects", ErrBadSnapshot)
	}
	seen := make(map[string]struct{}, len(snap.Prospects))
	for i, p := range snap.Prospects {
		if p.ID == "" {
			return fmt.Errorf("%w: prospect %d has no id", ErrBadSnapshot, i)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: duplicate prospect id %q", ErrBadSnapshot, p.ID)
		}
		seen[p.ID] = struct{}{}
		if !p.Level.Valid() {
			return fmt.Errorf("%w: prospect %q has unknown level %q", ErrBadSnapshot, p.ID, p.Level)
		}
	}
	return nil
}

// Write marshals v as indented JSON to path via a temp file and rename,
// so readers of path never see a partial result.
func Write(ctx context.Context, path string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteResult, err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".farmline-*.json")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteResult, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %w", ErrWriteResult, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteResult, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteResult, err)
	}
	return nil
}
