package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return sqlxDB, mock, func() {
		sqlxDB.Close()
	}
}

func TestRepository_CreateSearchEvent(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	event := &SearchEvent{
		Query:             "pet food delivery",
		ClientKey:         "203.0.113.9",
		RoundsUsed:        2,
		CandidatesChecked: 20,
		SuggestionsCount:  5,
		AcceptedDomains:   pq.StringArray{"petly.com", "pawbox.io"},
		DurationMS:        4200,
	}

	mock.ExpectExec("INSERT INTO searches").
		WithArgs(sqlmock.AnyArg(), event.Query, event.ClientKey, event.RoundsUsed, event.CandidatesChecked, event.SuggestionsCount, sqlmock.AnyArg(), event.DurationMS, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.CreateSearchEvent(ctx, event)
	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.False(t, event.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetRecentSearches(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "query", "client_key", "rounds_used", "candidates_checked", "suggestions_count", "accepted_domains", "duration_ms", "created_at"}).
		AddRow(uuid.New(), "bakery", "198.51.100.2", 1, 10, 5, pq.StringArray{"crumbly.com"}, 2100, now).
		AddRow(uuid.New(), "pet food delivery", "203.0.113.9", 5, 48, 0, pq.StringArray{}, 9800, now.Add(-time.Minute))

	mock.ExpectQuery("SELECT \\* FROM searches ORDER BY created_at DESC LIMIT \\$1").
		WithArgs(10).
		WillReturnRows(rows)

	events, err := repo.GetRecentSearches(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "bakery", events[0].Query)
	assert.Equal(t, 0, events[1].SuggestionsCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetSearchStats(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	repo := NewRepository(db)

	rows := sqlmock.NewRows([]string{"total_searches", "total_suggestions", "avg_rounds"}).
		AddRow(42, 180, 2.4)

	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	stats, err := repo.GetSearchStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, stats.TotalSearches)
	assert.Equal(t, 180, stats.TotalSuggestions)
	assert.InDelta(t, 2.4, stats.AvgRounds, 0.001)
}

func TestSink_NilSafety(t *testing.T) {
	var nilSink *Sink
	// Must not panic.
	nilSink.Record(SearchEvent{Query: "anything"})

	emptySink := NewSink(nil)
	emptySink.Record(SearchEvent{Query: "anything"})
}
