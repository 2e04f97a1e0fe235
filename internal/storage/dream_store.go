// internal/storage/dream_store.go
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Corphon/DreamLogger/internal/dream"
	apperrors "github.com/Corphon/DreamLogger/internal/errors"
	"github.com/Corphon/DreamLogger/internal/models"
)

// timeLayout sorts lexicographically in chronological order.
const timeLayout = "2006-01-02 15:04:05.000000"

// DreamStore persists users and their dreams. Records are append-only.
type DreamStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenDreamStore opens (or creates) the SQLite database at dbPath and ensures its schema.
func OpenDreamStore(ctx context.Context, dbPath string) (*DreamStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?"+sqlitePragmas)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := NewDreamStore(db)
	if err := s.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// NewDreamStore wraps an already opened database. EnsureSchema is not run.
func NewDreamStore(db *sql.DB) *DreamStore {
	return &DreamStore{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// EnsureSchema creates missing tables and upgrades a legacy dreams table in place.
// It is idempotent.
func (s *DreamStore) EnsureSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, usersSchema); err != nil {
		return fmt.Errorf("create users: %w", err)
	}

	exists, err := tableExists(ctx, tx, "dreams")
	if err != nil {
		return err
	}

	switch {
	case !exists:
		if _, err := tx.ExecContext(ctx, dreamsSchema); err != nil {
			return fmt.Errorf("create dreams: %w", err)
		}
	default:
		hasUsername, err := columnExists(ctx, tx, "dreams", "username")
		if err != nil {
			return err
		}
		if !hasUsername {
			for _, stmt := range []string{legacyRename, dreamsSchema, legacyCopy, legacyDrop} {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("migrate legacy dreams: %w", err)
				}
			}
		}
	}

	if _, err := tx.ExecContext(ctx, dreamsIndex); err != nil {
		return fmt.Errorf("create dreams index: %w", err)
	}

	return tx.Commit()
}

func tableExists(ctx context.Context, tx *sql.Tx, name string) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("inspect tables: %w", err)
	}
	return n > 0, nil
}

func columnExists(ctx context.Context, tx *sql.Tx, table, column string) (bool, error) {
	rows, err := tx.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, fmt.Errorf("inspect %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

// EnsureUser registers username if it is new. created reports whether a row was inserted.
func (s *DreamStore) EnsureUser(ctx context.Context, username string) (*models.User, bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, created_at) VALUES (?, ?) ON CONFLICT(username) DO NOTHING`,
		username, s.now().Format(timeLayout))
	if err != nil {
		return nil, false, apperrors.NewProcessingError("register user", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, false, apperrors.NewProcessingError("register user", err)
	}

	user := &models.User{}
	var createdAt dbTime
	err = s.db.QueryRowContext(ctx,
		`SELECT id, username, created_at FROM users WHERE username = ?`, username).
		Scan(&user.ID, &user.Username, &createdAt)
	if err != nil {
		return nil, false, apperrors.NewProcessingError("load user", err)
	}
	user.CreatedAt = createdAt.Time
	return user, affected > 0, nil
}

// AppendDream inserts d and fills in its ID and CreatedAt.
func (s *DreamStore) AppendDream(ctx context.Context, d *models.Dream) error {
	createdAt := s.now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO dreams (username, dream_text, mood, interpretation, image_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		d.Username, d.DreamText, string(d.Mood), d.Interpretation, d.ImageURL, createdAt.Format(timeLayout))
	if err != nil {
		return apperrors.NewProcessingError("save dream", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return apperrors.NewProcessingError("save dream", err)
	}
	d.ID = id
	d.CreatedAt = createdAt
	return nil
}

// ListDreams returns every dream of username, newest first.
func (s *DreamStore) ListDreams(ctx context.Context, username string) ([]models.Dream, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, dream_text, mood, interpretation, image_url, created_at
		 FROM dreams
		 WHERE username = ?
		 ORDER BY created_at DESC, id DESC`, username)
	if err != nil {
		return nil, apperrors.NewProcessingError("list dreams", err)
	}
	defer rows.Close()

	dreams := make([]models.Dream, 0)
	for rows.Next() {
		var (
			d              models.Dream
			mood           sql.NullString
			interpretation sql.NullString
			imageURL       sql.NullString
			createdAt      dbTime
		)
		if err := rows.Scan(&d.ID, &d.Username, &d.DreamText, &mood, &interpretation, &imageURL, &createdAt); err != nil {
			return nil, apperrors.NewProcessingError("scan dream", err)
		}
		d.Mood = dream.Mood(mood.String)
		d.Interpretation = interpretation.String
		d.ImageURL = imageURL.String
		d.CreatedAt = createdAt.Time
		dreams = append(dreams, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewProcessingError("list dreams", err)
	}
	return dreams, nil
}

// CountDreams returns how many dreams username has logged.
func (s *DreamStore) CountDreams(ctx context.Context, username string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM dreams WHERE username = ?`, username).Scan(&n); err != nil {
		return 0, apperrors.NewProcessingError("count dreams", err)
	}
	return n, nil
}

// Ping checks the database connection.
func (s *DreamStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *DreamStore) Close() error {
	return s.db.Close()
}
