package ops

import (
	"context"
	"database/sql"
	"time"

	"github.com/hpungsan/jot/internal/db"
)

// StatsOutput contains the result of the Stats operation.
type StatsOutput struct {
	db.Stats
	// ChecklistRate is completed/total checklist items as a percentage (0 when empty).
	ChecklistRate int    `json:"checklist_rate"`
	Month         string `json:"month"`
}

// Stats aggregates memo counts for the profile view.
func Stats(ctx context.Context, database *sql.DB) (*StatsOutput, error) {
	now := time.Now()
	start := monthStart(now)

	s, err := db.GetStats(ctx, database, start.Unix())
	if err != nil {
		return nil, err
	}

	rate := 0
	if s.ChecklistTotal > 0 {
		rate = s.ChecklistCompleted * 100 / s.ChecklistTotal
	}

	return &StatsOutput{
		Stats:         *s,
		ChecklistRate: rate,
		Month:         start.Format("2006-01"),
	}, nil
}
