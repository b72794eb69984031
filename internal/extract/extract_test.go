package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_CleanJSONList(t *testing.T) {
	raw := `[{"domain":"petly.com","reason":"short and friendly"},{"domain":"pawbox","extension":"io"}]`

	candidates, err := Extract(raw, Options{})
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, Candidate{Name: "petly", Extension: ".com", Reason: "short and friendly"}, candidates[0])
	assert.Equal(t, Candidate{Name: "pawbox", Extension: ".io"}, candidates[1])
}

func TestExtract_ReasoningPreamble(t *testing.T) {
	raw := `blah blah <think>reasoning</think>[{"domain":"a.com"}]`

	candidates, err := Extract(raw, Options{})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "a", candidates[0].Name)
	assert.Equal(t, ".com", candidates[0].Extension)
}

func TestExtract_UnclosedReasoningMarkerStripsToEnd(t *testing.T) {
	raw := `[{"domain":"early.com"}] <think>model trailed off here and never closed`

	candidates, err := Extract(raw, Options{})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "early", candidates[0].Name)
}

func TestExtract_CodeFences(t *testing.T) {
	raw := "Here you go:\n```json\n[{\"domain\":\"fenced.io\",\"reason\":\"tech vibe\"}]\n```\n"

	candidates, err := Extract(raw, Options{})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "fenced", candidates[0].Name)
	assert.Equal(t, ".io", candidates[0].Extension)
}

func TestExtract_ChattyTextAroundList(t *testing.T) {
	raw := `Sure! Here are some great names for your business: [{"domain":"snackly.com"},{"domain":"biteclub.co"}] Let me know if you want more.`

	candidates, err := Extract(raw, Options{})
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
}

func TestExtract_SalvageRecoversParsableObjects(t *testing.T) {
	// The list as a whole is broken: a trailing fragment makes every list
	// pass fail, but two objects still parse individually.
	raw := `[{"domain":"good.com","reason":"ok"},{"domain":"also.io"},{"domain":"broken`

	_, err := Extract(raw, Options{})
	assert.ErrorIs(t, err, ErrNoCandidates)

	candidates, err := Extract(raw, Options{Salvage: true})
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "good", candidates[0].Name)
	assert.Equal(t, "also", candidates[1].Name)
}

func TestExtract_NothingRecoverable(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "plain prose", raw: "I could not come up with any names, sorry."},
		{name: "empty input", raw: ""},
		{name: "empty list", raw: "[]"},
		{name: "objects without domains", raw: `[{"name":"petly"},{"name":"pawbox"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.raw, Options{Salvage: true})
			assert.ErrorIs(t, err, ErrNoCandidates)
		})
	}
}

func TestStripReasoning(t *testing.T) {
	assert.Equal(t, " after", stripReasoning("before <think>thoughts</think> after"))
	assert.Equal(t, "before ", stripReasoning("before <think>thoughts run to the end"))
	assert.Equal(t, "untouched", stripReasoning("untouched"))
}

func TestToCandidate_DomainDotWinsOverExtensionField(t *testing.T) {
	c, ok := toCandidate(rawCandidate{Domain: "petly.com", Extension: "io"})
	require.True(t, ok)
	assert.Equal(t, "petly", c.Name)
	assert.Equal(t, ".com", c.Extension)
}

func TestToCandidate_NormalizesCase(t *testing.T) {
	c, ok := toCandidate(rawCandidate{Domain: "PetLy.COM"})
	require.True(t, ok)
	assert.Equal(t, "petly", c.Name)
	assert.Equal(t, ".com", c.Extension)
}
