package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Verdict is one persisted bot classification.
type Verdict struct {
	UserID            int
	SessionID         string
	Policy            string
	IsBot             bool
	ContinuousMinutes float64
	RunStart          time.Time
	EventCount        int
	DetectedAt        time.Time
}

type VerdictStore struct {
	pool *pgxpool.Pool
}

func NewVerdictStore(pool *pgxpool.Pool) *VerdictStore {
	return &VerdictStore{pool: pool}
}

const insertVerdictSQL = `
INSERT INTO verdicts (user_id, session_id, policy, is_bot, continuous_minutes, run_start, event_count, detected_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id`

func (s *VerdictStore) InsertVerdict(ctx context.Context, v Verdict) (int64, error) {
	runStart := pgtype.Timestamptz{}
	if !v.RunStart.IsZero() {
		runStart = pgtype.Timestamptz{Time: v.RunStart.UTC(), Valid: true}
	}

	var id int64
	err := s.pool.QueryRow(ctx, insertVerdictSQL,
		int32(v.UserID),
		pgtype.Text{String: v.SessionID, Valid: v.SessionID != ""},
		v.Policy,
		v.IsBot,
		pgtype.Float8{Float64: v.ContinuousMinutes, Valid: true},
		runStart,
		pgtype.Int4{Int32: int32(v.EventCount), Valid: true},
		pgtype.Timestamptz{Time: v.DetectedAt.UTC(), Valid: true},
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert verdict: %w", err)
	}

	return id, nil
}
