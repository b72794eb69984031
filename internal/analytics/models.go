package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// SearchEvent is one recorded suggestion search. Persistence is best effort;
// nothing in the primary request path waits on it.
type SearchEvent struct {
	ID                uuid.UUID      `db:"id" json:"id"`
	Query             string         `db:"query" json:"query"`
	ClientKey         string         `db:"client_key" json:"client_key"`
	RoundsUsed        int            `db:"rounds_used" json:"rounds_used"`
	CandidatesChecked int            `db:"candidates_checked" json:"candidates_checked"`
	SuggestionsCount  int            `db:"suggestions_count" json:"suggestions_count"`
	AcceptedDomains   pq.StringArray `db:"accepted_domains" json:"accepted_domains"`
	DurationMS        int64          `db:"duration_ms" json:"duration_ms"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
}
