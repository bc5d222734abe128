// Package store persists summaries and scheduled meetings in MySQL.
// The relay core never touches it directly; the HTTP surface calls it with
// the collaborator contract: FindScheduledMeeting, SaveSummary, ListSummaries.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"github.com/parthdv/huddle/internal/domain"
)

var ErrNotFound = errors.New("store: not found")

type MySQLStore struct {
	db *sql.DB
}

func Connect(ctx context.Context, dsn string) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}

	s := &MySQLStore{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	log.Info().Str("module", "store").Msg("mysql connected")
	return s, nil
}

func (s *MySQLStore) Close() error { return s.db.Close() }

func (s *MySQLStore) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scheduled_meetings (
			room_id VARCHAR(64) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			uid VARCHAR(64) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS summaries (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			uid VARCHAR(64) NOT NULL,
			room_id VARCHAR(64) NOT NULL,
			meeting_name VARCHAR(255) NOT NULL,
			summary TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_summaries_uid (uid, created_at)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store: migrate: %w", err)
		}
	}
	return nil
}

// ScheduleMeeting names a room ahead of time; scheduling the same room again
// overwrites the previous name.
func (s *MySQLStore) ScheduleMeeting(ctx context.Context, m domain.ScheduledMeeting) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scheduled_meetings (room_id, name, uid) VALUES (?, ?, ?)
		 ON DUPLICATE KEY UPDATE name = VALUES(name), uid = VALUES(uid)`,
		string(m.RoomID), m.Name, m.UID)
	if err != nil {
		return fmt.Errorf("store: schedule meeting: %w", err)
	}
	return nil
}

func (s *MySQLStore) FindScheduledMeeting(ctx context.Context, roomID domain.RoomID) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx,
		`SELECT name FROM scheduled_meetings WHERE room_id = ?`, string(roomID)).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("store: find scheduled meeting: %w", err)
	}
	return name, nil
}

func (s *MySQLStore) SaveSummary(ctx context.Context, uid string, roomID domain.RoomID, summary, meetingName string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO summaries (uid, room_id, meeting_name, summary) VALUES (?, ?, ?, ?)`,
		uid, string(roomID), meetingName, summary)
	if err != nil {
		return fmt.Errorf("store: save summary: %w", err)
	}
	return nil
}

// ListSummaries returns a user's summaries, most recent first.
func (s *MySQLStore) ListSummaries(ctx context.Context, uid string) ([]domain.SummaryRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT uid, room_id, meeting_name, summary, created_at
		 FROM summaries WHERE uid = ? ORDER BY created_at DESC`, uid)
	if err != nil {
		return nil, fmt.Errorf("store: list summaries: %w", err)
	}
	defer rows.Close()

	var out []domain.SummaryRecord
	for rows.Next() {
		var rec domain.SummaryRecord
		var roomID string
		if err := rows.Scan(&rec.UID, &roomID, &rec.MeetingName, &rec.Summary, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan summary: %w", err)
		}
		rec.RoomID = domain.RoomID(roomID)
		out = append(out, rec)
	}
	return out, rows.Err()
}
