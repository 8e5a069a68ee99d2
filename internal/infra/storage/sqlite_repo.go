package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLiteEventRepository implements EventRepository for SQLite.
type SQLiteEventRepository struct {
	db *sql.DB
}

func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

func (r *SQLiteEventRepository) Append(ctx context.Context, rec EventRecord) error {
	query := `
		INSERT INTO events (game_id, seq, day, phase, message)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(game_id, seq) DO UPDATE SET message=excluded.message
	`
	_, err := r.db.ExecContext(ctx, query, rec.GameID, rec.Seq, rec.Day, rec.Phase, rec.Message)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (r *SQLiteEventRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]EventRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []EventRecord
	for rows.Next() {
		var e EventRecord
		if err := rows.Scan(&e.GameID, &e.Seq, &e.Day, &e.Phase, &e.Message); err != nil {
			return nil, err
		}
		recs = append(recs, e)
	}
	return recs, rows.Err()
}

func (r *SQLiteEventRepository) GetByGameID(ctx context.Context, gameID string) ([]EventRecord, error) {
	query := `SELECT game_id, seq, day, phase, message FROM events WHERE game_id = ? ORDER BY seq ASC`
	return r.getMany(ctx, query, gameID)
}

func (r *SQLiteEventRepository) GetByDay(ctx context.Context, gameID string, day int) ([]EventRecord, error) {
	query := `SELECT game_id, seq, day, phase, message FROM events WHERE game_id = ? AND day = ? ORDER BY seq ASC`
	return r.getMany(ctx, query, gameID, day)
}

var _ EventRepository = (*SQLiteEventRepository)(nil)

// ---------------------------------------------------------
// SQLiteResultRepository
// ---------------------------------------------------------

type SQLiteResultRepository struct {
	db *sql.DB
}

func NewSQLiteResultRepository(db *sql.DB) *SQLiteResultRepository {
	return &SQLiteResultRepository{db: db}
}

func (r *SQLiteResultRepository) UpsertGame(ctx context.Context, rec GameRecord) error {
	query := `
		INSERT INTO games (game_id, num_agents, phase, day_count, winner, created_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(game_id) DO UPDATE SET
			phase=excluded.phase,
			day_count=excluded.day_count,
			winner=excluded.winner,
			finished_at=excluded.finished_at
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.GameID, rec.NumAgents, rec.Phase, rec.DayCount, rec.Winner, rec.CreatedAt, rec.FinishedAt,
	)
	return err
}

func (r *SQLiteResultRepository) UpsertParticipants(ctx context.Context, recs []ParticipantRecord) error {
	query := `
		INSERT INTO participants (game_id, id, role, status)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(game_id, id) DO UPDATE SET
			role=excluded.role,
			status=excluded.status
	`
	for _, rec := range recs {
		if _, err := r.db.ExecContext(ctx, query, rec.GameID, rec.ID, rec.Role, rec.Status); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteResultRepository) GetGame(ctx context.Context, gameID string) (*GameRecord, error) {
	query := `SELECT game_id, num_agents, phase, day_count, winner, created_at, finished_at FROM games WHERE game_id = ?`
	var g GameRecord
	err := r.db.QueryRowContext(ctx, query, gameID).Scan(
		&g.GameID, &g.NumAgents, &g.Phase, &g.DayCount, &g.Winner, &g.CreatedAt, &g.FinishedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (r *SQLiteResultRepository) ListGames(ctx context.Context, limit int) ([]GameRecord, error) {
	query := `SELECT game_id, num_agents, phase, day_count, winner, created_at, finished_at FROM games ORDER BY created_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []GameRecord
	for rows.Next() {
		var g GameRecord
		if err := rows.Scan(&g.GameID, &g.NumAgents, &g.Phase, &g.DayCount, &g.Winner, &g.CreatedAt, &g.FinishedAt); err != nil {
			return nil, err
		}
		recs = append(recs, g)
	}
	return recs, rows.Err()
}

var _ ResultRepository = (*SQLiteResultRepository)(nil)
