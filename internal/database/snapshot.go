package database

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fileport/internal/models"

	"github.com/spf13/afero"
)

// Snapshotter persists the full user table. Save always receives every
// known user and replaces whatever was stored before.
type Snapshotter interface {
	Load(ctx context.Context) ([]*models.User, error)
	Save(ctx context.Context, users []*models.User) error
}

// FileSnapshotter keeps the snapshot as a JSON array in a single file.
type FileSnapshotter struct {
	fs   afero.Fs
	path string
}

func NewFileSnapshotter(fs afero.Fs, path string) *FileSnapshotter {
	return &FileSnapshotter{fs: fs, path: path}
}

// Load creates an empty snapshot file when none exists yet. An empty file
// loads as no users.
func (f *FileSnapshotter) Load(_ context.Context) ([]*models.User, error) {
	data, err := afero.ReadFile(f.fs, f.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		if err := f.fs.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		if err := afero.WriteFile(f.fs, f.path, nil, 0o644); err != nil {
			return nil, fmt.Errorf("failed to create snapshot file: %w", err)
		}
		return nil, nil
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var records []*snapshotUser
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", f.path, err)
	}

	users := make([]*models.User, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		u := r.User
		u.LoginTime = time.Time(r.LoginTime)
		users = append(users, &u)
	}
	return users, nil
}

// snapshotUser reads loginTime leniently so files written by earlier
// deployments still load.
type snapshotUser struct {
	models.User
	LoginTime snapshotTime `json:"loginTime"`
}

// Zone-less layouts are read in the server's local time zone.
var snapshotTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// snapshotTime accepts RFC 3339, zone-less date-times, and epoch
// milliseconds.
type snapshotTime time.Time

func (t *snapshotTime) UnmarshalJSON(data []byte) error {
	raw := string(bytes.TrimSpace(data))
	if raw == "null" {
		return nil
	}

	if !strings.HasPrefix(raw, `"`) {
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid login time %s: %w", raw, err)
		}
		*t = snapshotTime(time.UnixMilli(ms))
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	for _, layout := range snapshotTimeLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			*t = snapshotTime(parsed)
			return nil
		}
	}
	return fmt.Errorf("invalid login time %q", s)
}

// Save writes the snapshot to a temporary file next to the target and
// renames it into place, so readers never see a half-written file.
func (f *FileSnapshotter) Save(_ context.Context, users []*models.User) error {
	if users == nil {
		users = []*models.User{}
	}
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("failed to marshal users: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := f.fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := afero.TempFile(f.fs, dir, "."+filepath.Base(f.path)+"-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		f.fs.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		f.fs.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		f.fs.Remove(tmpName)
		return err
	}

	if err := f.fs.Rename(tmpName, f.path); err != nil {
		f.fs.Remove(tmpName)
		return err
	}
	return nil
}

// PostgresSnapshotter keeps the snapshot in the file_users table and
// rewrites it inside a single transaction.
type PostgresSnapshotter struct {
	store *Store
}

func NewPostgresSnapshotter(ctx context.Context, store *Store) (*PostgresSnapshotter, error) {
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &PostgresSnapshotter{store: store}, nil
}

func (p *PostgresSnapshotter) Load(ctx context.Context) ([]*models.User, error) {
	return p.store.ListUsers(ctx)
}

func (p *PostgresSnapshotter) Save(ctx context.Context, users []*models.User) error {
	return p.store.ExecTx(ctx, func(q *Queries) error {
		return q.ReplaceUsers(ctx, users)
	})
}
