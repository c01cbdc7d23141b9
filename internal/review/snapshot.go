package review

import (
	"encoding/json"
	"fmt"

	"github.com/dshills/selfreview/internal/diff"
	"github.com/dshills/selfreview/internal/gitctx"
)

// CurrentSnapshotVersion is the version written by Create.
const CurrentSnapshotVersion = 2

// Snapshot is either SnapshotV1 or SnapshotV2.
type Snapshot interface {
	Version() int
	Repository() gitctx.RepoMeta
	// EmbeddedFiles returns the files carried by the snapshot itself, with
	// hunks. Only legacy snapshots carry any.
	EmbeddedFiles() []diff.File
}

// SnapshotV1 is the legacy format: every file and hunk embedded, no version
// tag.
type SnapshotV1 struct {
	Files []diff.File
	Repo  gitctx.RepoMeta
}

func (s SnapshotV1) Version() int { return 1 }
func (s SnapshotV1) Repository() gitctx.RepoMeta { return s.Repo }
func (s SnapshotV1) EmbeddedFiles() []diff.File { return s.Files }

// SnapshotV2 carries repository metadata only; files live in file records.
type SnapshotV2 struct {
	Repo gitctx.RepoMeta
}

func (s SnapshotV2) Version() int { return CurrentSnapshotVersion }
func (s SnapshotV2) Repository() gitctx.RepoMeta { return s.Repo }
func (s SnapshotV2) EmbeddedFiles() []diff.File { return nil }

type snapshotJSON struct {
	Version    int             `json:"version,omitempty"`
	Repository gitctx.RepoMeta `json:"repository"`
	Files      []diff.File     `json:"files,omitempty"`
}

// DecodeSnapshot reads a stored snapshot blob. A blob without a version is
// legacy; version 2 is current; anything else is rejected.
func DecodeSnapshot(blob string) (Snapshot, error) {
	var raw snapshotJSON
	if err := json.Unmarshal([]byte(blob), &raw); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	switch raw.Version {
	case 0, 1:
		return SnapshotV1{Files: raw.Files, Repo: raw.Repository}, nil
	case CurrentSnapshotVersion:
		return SnapshotV2{Repo: raw.Repository}, nil
	default:
		return nil, fmt.Errorf("unsupported snapshot version %d", raw.Version)
	}
}

// EncodeSnapshot renders s as a stored blob. Legacy snapshots are written
// without a version tag so they decode back to SnapshotV1.
func EncodeSnapshot(s Snapshot) (string, error) {
	raw := snapshotJSON{Repository: s.Repository()}
	switch v := s.(type) {
	case SnapshotV1:
		raw.Files = v.Files
	case SnapshotV2:
		raw.Version = CurrentSnapshotVersion
	default:
		return "", fmt.Errorf("unsupported snapshot type %T", s)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return "", fmt.Errorf("encoding snapshot: %w", err)
	}
	return string(data), nil
}
