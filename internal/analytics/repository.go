package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository persists search events to Postgres.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new repository instance.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// CreateSearchEvent inserts a search event.
func (r *Repository) CreateSearchEvent(ctx context.Context, event *SearchEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO searches (id, query, client_key, rounds_used, candidates_checked, suggestions_count, accepted_domains, duration_ms, created_at)
		VALUES (:id, :query, :client_key, :rounds_used, :candidates_checked, :suggestions_count, :accepted_domains, :duration_ms, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, event)
	if err != nil {
		return fmt.Errorf("failed to create search event: %w", err)
	}

	return nil
}

// GetRecentSearches retrieves the latest search events.
func (r *Repository) GetRecentSearches(ctx context.Context, limit int) ([]*SearchEvent, error) {
	var events []*SearchEvent
	query := `SELECT * FROM searches ORDER BY created_at DESC LIMIT $1`

	err := r.db.SelectContext(ctx, &events, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent searches: %w", err)
	}

	return events, nil
}

// GetSearchStats aggregates basic usage counters.
func (r *Repository) GetSearchStats(ctx context.Context) (*SearchStats, error) {
	var stats SearchStats
	query := `
		SELECT
			COUNT(*) AS total_searches,
			COALESCE(SUM(suggestions_count), 0) AS total_suggestions,
			COALESCE(AVG(rounds_used), 0) AS avg_rounds
		FROM searches
	`

	err := r.db.GetContext(ctx, &stats, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get search stats: %w", err)
	}

	return &stats, nil
}

// SearchStats summarizes recorded searches.
type SearchStats struct {
	TotalSearches    int     `db:"total_searches" json:"total_searches"`
	TotalSuggestions int     `db:"total_suggestions" json:"total_suggestions"`
	AvgRounds        float64 `db:"avg_rounds" json:"avg_rounds"`
}
