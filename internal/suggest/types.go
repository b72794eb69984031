package suggest

import "github.com/namescout/internal/registrar"

// Suggestion is one accepted, verified-available domain with the model's
// pitch for it.
type Suggestion struct {
	Domain    string  `json:"domain"`
	Extension string  `json:"extension"`
	Available bool    `json:"available"`
	Premium   bool    `json:"premium,omitempty"`
	Price     float64 `json:"price,omitempty"`
	Reason    string  `json:"reason,omitempty"`
}

// Result is the final output of one search.
type Result struct {
	Query       string       `json:"query"`
	Suggestions []Suggestion `json:"suggestions"`
	RoundsUsed  int          `json:"rounds_used"`
}

// qualifiedCandidate pairs a fully qualified domain with the candidate's
// reason, for one round.
type qualifiedCandidate struct {
	Domain    string
	Extension string
	Name      string
	Reason    string
}

// searchState is the loop's fold state: round index, accepted set, and every
// bare name seen so far. Termination conditions are pure functions of it.
type searchState struct {
	round           int
	accepted        []Suggestion
	acceptedDomains map[string]bool
	seenNames       map[string]bool
	seenOrder       []string
}

func newSearchState() *searchState {
	return &searchState{
		acceptedDomains: make(map[string]bool),
		seenNames:       make(map[string]bool),
	}
}

// markSeen records a bare candidate name for future exclusion lists.
func (s *searchState) markSeen(name string) {
	if name == "" || s.seenNames[name] {
		return
	}
	s.seenNames[name] = true
	s.seenOrder = append(s.seenOrder, name)
}

// excluded returns every name seen in prior rounds, in first-seen order.
func (s *searchState) excluded() []string {
	return append([]string(nil), s.seenOrder...)
}

// accept appends a suggestion unless its exact domain string was accepted
// before.
func (s *searchState) accept(suggestion Suggestion) bool {
	if s.acceptedDomains[suggestion.Domain] {
		return false
	}
	s.acceptedDomains[suggestion.Domain] = true
	s.accepted = append(s.accepted, suggestion)
	return true
}

// toSuggestion converts a probe result using the candidate's reason.
func toSuggestion(q qualifiedCandidate, a registrar.Availability) Suggestion {
	return Suggestion{
		Domain:    a.Domain,
		Extension: q.Extension,
		Available: a.Available,
		Premium:   a.Premium,
		Price:     a.Price,
		Reason:    q.Reason,
	}
}
