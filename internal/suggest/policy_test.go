package suggest

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/namescout/internal/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyForRound_Rotation(t *testing.T) {
	tests := []struct {
		round         int
		wantPreferred []string
		wantCreative  bool
	}{
		{round: 0, wantPreferred: nil, wantCreative: false},
		{round: 1, wantPreferred: []string{".io", ".co", ".app"}, wantCreative: false},
		{round: 2, wantPreferred: []string{".net", ".org", ".ai"}, wantCreative: false},
		{round: 3, wantPreferred: []string{".io", ".co", ".app"}, wantCreative: true},
		{round: 4, wantPreferred: []string{".net", ".org", ".ai"}, wantCreative: true},
	}

	for _, tt := range tests {
		p := policyForRound(tt.round, ".com", 0.6)
		assert.Equal(t, tt.wantPreferred, p.preferred, "round %d", tt.round)
		assert.Equal(t, tt.wantCreative, p.creative, "round %d", tt.round)
	}
}

func TestRoundPolicy_DefaultExtensionAlwaysPermitted(t *testing.T) {
	for round := 0; round < 5; round++ {
		p := policyForRound(round, ".com", 0.6)
		assert.True(t, p.permitted(".com"), "round %d", round)
	}
}

func TestQualify_KeepsPermittedSuggestedExtension(t *testing.T) {
	p := policyForRound(1, ".com", 0.6)
	rng := rand.New(rand.NewSource(1))

	qualified := qualify([]extract.Candidate{
		{Name: "petly", Extension: ".io", Reason: "short"},
		{Name: "pawbox", Extension: ".com"},
	}, p, rng)

	require.Len(t, qualified, 2)
	assert.Equal(t, "petly.io", qualified[0].Domain)
	assert.Equal(t, "pawbox.com", qualified[1].Domain)
}

func TestQualify_ReassignsUnpermittedExtension(t *testing.T) {
	// Round 0 permits only the default extension.
	p := policyForRound(0, ".com", 0.6)
	rng := rand.New(rand.NewSource(1))

	qualified := qualify([]extract.Candidate{
		{Name: "petly", Extension: ".xyz"},
		{Name: "pawbox"},
	}, p, rng)

	require.Len(t, qualified, 2)
	assert.Equal(t, "petly.com", qualified[0].Domain)
	assert.Equal(t, "pawbox.com", qualified[1].Domain)
}

func TestQualify_AssignedExtensionsComeFromRoundSet(t *testing.T) {
	p := policyForRound(2, ".com", 0.6)
	rng := rand.New(rand.NewSource(42))

	candidates := make([]extract.Candidate, 50)
	for i := range candidates {
		candidates[i] = extract.Candidate{Name: "name" + strings.Repeat("x", i%3)}
	}

	permitted := map[string]bool{".com": true, ".net": true, ".org": true, ".ai": true}
	for _, q := range qualify(candidates, p, rng) {
		assert.True(t, permitted[q.Extension], "unexpected extension %s", q.Extension)
	}
}

func TestQualify_DropsUnusableNames(t *testing.T) {
	p := policyForRound(0, ".com", 0.6)
	rng := rand.New(rand.NewSource(1))

	qualified := qualify([]extract.Candidate{
		{Name: "!!!"},
		{Name: "  "},
		{Name: "Valid Name"},
	}, p, rng)

	require.Len(t, qualified, 1)
	assert.Equal(t, "validname.com", qualified[0].Domain)
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Petly", want: "petly"},
		{in: "  Pet Food  ", want: "petfood"},
		{in: "pet_food!", want: "petfood"},
		{in: "-edgy-", want: "edgy"},
		{in: "crème", want: "crme"},
		{in: "???", want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeName(tt.in), "input %q", tt.in)
	}
}
