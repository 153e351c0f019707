// Package archive persists final game exports and audio allocation
// records to SQLite so a finished broadcast survives process restarts.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"rinkcast/internal/namer"
)

const schema = `
CREATE TABLE IF NOT EXISTS game_exports (
	game_id     TEXT PRIMARY KEY,
	exported_at INTEGER NOT NULL,
	state       BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS audio_records (
	filename          TEXT PRIMARY KEY,
	game_id           TEXT NOT NULL,
	audio_id          TEXT NOT NULL,
	session_id        TEXT NOT NULL,
	global_seq        INTEGER NOT NULL,
	game_seq          INTEGER NOT NULL,
	timestamp_seq     INTEGER NOT NULL,
	speaker_style_seq INTEGER NOT NULL,
	duplicate_suffix  INTEGER NOT NULL,
	created_at        INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audio_records_game ON audio_records(game_id);
`

// Store provides SQLite-backed persistence for finished games.
type Store struct {
	sqlDB *sql.DB
}

// Open opens (and if needed initializes) the archive at the given path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("archive path is required")
	}

	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create archive dir: %w", err)
		}
	}

	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open archive db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping archive db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("init archive schema: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveFinalState stores the exported JSON document for a finished game.
// Re-saving a game replaces the previous export.
func (s *Store) SaveFinalState(ctx context.Context, gameID string, data []byte) error {
	if gameID == "" {
		return fmt.Errorf("game id is required")
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO game_exports (game_id, exported_at, state) VALUES (?, ?, ?)
		 ON CONFLICT(game_id) DO UPDATE SET exported_at = excluded.exported_at, state = excluded.state`,
		gameID, time.Now().UTC().UnixMilli(), data)
	if err != nil {
		return fmt.Errorf("save final state: %w", err)
	}
	return nil
}

// FinalState loads the exported JSON document for a game. It returns
// sql.ErrNoRows wrapped when no export exists.
func (s *Store) FinalState(ctx context.Context, gameID string) ([]byte, error) {
	var data []byte
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT state FROM game_exports WHERE game_id = ?`, gameID).Scan(&data)
	if err != nil {
		return nil, fmt.Errorf("load final state: %w", err)
	}
	return data, nil
}

// SaveAudioRecords persists the allocation records for a game in a
// single transaction.
func (s *Store) SaveAudioRecords(ctx context.Context, gameID string, records []namer.AudioFileRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin audio records tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO audio_records
		 (filename, game_id, audio_id, session_id, global_seq, game_seq, timestamp_seq, speaker_style_seq, duplicate_suffix, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare audio record insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.ExecContext(ctx,
			r.Filename, gameID, r.AudioID, r.SessionID,
			r.GlobalSeq, r.GameSeq, r.TimestampSeq, r.SpeakerStyleSeq,
			r.DuplicateSuffix, r.CreatedAt.UTC().UnixMilli())
		if err != nil {
			return fmt.Errorf("insert audio record %s: %w", r.Filename, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit audio records: %w", err)
	}
	return nil
}

// AudioRecords loads the allocation records for a game ordered by
// global sequence.
func (s *Store) AudioRecords(ctx context.Context, gameID string) ([]namer.AudioFileRecord, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT filename, audio_id, session_id, global_seq, game_seq, timestamp_seq, speaker_style_seq, duplicate_suffix, created_at
		 FROM audio_records WHERE game_id = ? ORDER BY global_seq`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query audio records: %w", err)
	}
	defer rows.Close()

	var records []namer.AudioFileRecord
	for rows.Next() {
		var r namer.AudioFileRecord
		var createdAt int64
		if err := rows.Scan(&r.Filename, &r.AudioID, &r.SessionID,
			&r.GlobalSeq, &r.GameSeq, &r.TimestampSeq, &r.SpeakerStyleSeq,
			&r.DuplicateSuffix, &createdAt); err != nil {
			return nil, fmt.Errorf("scan audio record: %w", err)
		}
		r.CreatedAt = time.UnixMilli(createdAt).UTC()
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audio records: %w", err)
	}
	return records, nil
}
