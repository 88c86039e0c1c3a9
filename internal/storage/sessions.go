package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/codebuildervaibhav/audio-intelligence/internal/features"
	"github.com/codebuildervaibhav/audio-intelligence/internal/selection"
)

// SessionDB keeps the selection state of each session in SQLite
type SessionDB struct {
	db *sql.DB
}

// NewSessionDB opens (and if needed creates) the session database
func NewSessionDB(dbPath string) (*SessionDB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		language TEXT NOT NULL,
		transcription TEXT NOT NULL,
		intelligence TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_updated_at ON sessions(updated_at);
	`

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &SessionDB{db: db}, nil
}

// SaveState stores the language and the desired selection. The effective
// selection is derived again on load.
func (sdb *SessionDB) SaveState(ctx context.Context, id string, state *selection.State) error {
	transcription, err := json.Marshal(state.Desired.Transcription)
	if err != nil {
		return err
	}
	intelligence, err := json.Marshal(state.Desired.Intelligence)
	if err != nil {
		return err
	}

	query := `
	INSERT INTO sessions (id, language, transcription, intelligence, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		language = excluded.language,
		transcription = excluded.transcription,
		intelligence = excluded.intelligence,
		updated_at = excluded.updated_at
	`

	_, err = sdb.db.ExecContext(ctx, query, id, state.Language.Code(),
		string(transcription), string(intelligence), time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", id, err)
	}
	return nil
}

// LoadState returns the stored state of a session; found is false when unknown
func (sdb *SessionDB) LoadState(ctx context.Context, id string) (*selection.State, bool, error) {
	query := `SELECT language, transcription, intelligence FROM sessions WHERE id = ?`

	var code, transcription, intelligence string
	err := sdb.db.QueryRowContext(ctx, query, id).Scan(&code, &transcription, &intelligence)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get session %s: %w", id, err)
	}

	lang, err := languageByCode(code)
	if err != nil {
		return nil, false, err
	}

	state := selection.NewState()
	state.Language = lang
	if err := json.Unmarshal([]byte(transcription), &state.Desired.Transcription); err != nil {
		return nil, false, fmt.Errorf("session %s: bad transcription set: %w", id, err)
	}
	if err := json.Unmarshal([]byte(intelligence), &state.Desired.Intelligence); err != nil {
		return nil, false, fmt.Errorf("session %s: bad intelligence set: %w", id, err)
	}
	state.Effective = selection.Resolve(state.Language, state.Desired)
	return state, true, nil
}

// DeleteState forgets a session
func (sdb *SessionDB) DeleteState(ctx context.Context, id string) error {
	if _, err := sdb.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return nil
}

// PruneBefore deletes sessions not saved since cutoff and returns how many went
func (sdb *SessionDB) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := sdb.db.ExecContext(ctx, `DELETE FROM sessions WHERE updated_at < ?`, cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to prune sessions: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database connection
func (sdb *SessionDB) Close() error {
	return sdb.db.Close()
}

func languageByCode(code string) (features.Language, error) {
	for _, l := range features.Languages() {
		if l.Code() == code {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown language code %q", code)
}
