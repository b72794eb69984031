package suggest

import (
	"math/rand"
	"regexp"
	"strings"

	"github.com/namescout/internal/extract"
)

// Per-round extension preference rotation. Round 0 sticks to the default
// extension; later rounds widen the palette while the default keeps its
// biased share.
var extensionRotation = [][]string{
	{".io", ".co", ".app"},
	{".net", ".org", ".ai"},
}

var domainCharPattern = regexp.MustCompile(`[^a-z0-9.-]`)

// roundPolicy captures the extension rules for one retry round.
type roundPolicy struct {
	round            int
	preferred        []string // rotation set, empty on round 0
	defaultExtension string
	bias             float64
	creative         bool
}

// policyForRound builds the policy for a round index. Rounds 1 and 2 walk
// the rotation; round 3 onward keeps rotating with the creativity hint set.
func policyForRound(round int, defaultExtension string, bias float64) roundPolicy {
	p := roundPolicy{
		round:            round,
		defaultExtension: defaultExtension,
		bias:             bias,
	}

	if round > 0 {
		p.preferred = extensionRotation[(round-1)%len(extensionRotation)]
	}
	if round >= 3 {
		p.creative = true
	}

	return p
}

// permitted reports whether ext may be used this round. The default
// extension is always permitted.
func (p roundPolicy) permitted(ext string) bool {
	if ext == p.defaultExtension {
		return true
	}
	for _, e := range p.preferred {
		if e == ext {
			return true
		}
	}
	return false
}

// pick assigns an extension when a candidate has none that is permitted.
// The default extension wins with probability bias; otherwise the pick is
// uniform over the round's rotation set. The bias is a soft target, nothing
// enforces the final share.
func (p roundPolicy) pick(rng *rand.Rand) string {
	if len(p.preferred) == 0 {
		return p.defaultExtension
	}
	if rng.Float64() < p.bias {
		return p.defaultExtension
	}
	return p.preferred[rng.Intn(len(p.preferred))]
}

// qualify turns extracted candidates into fully qualified domains under the
// round's policy. A candidate keeps its own suggested extension when that is
// permitted this round; otherwise one is assigned. Names that sanitize to
// nothing are dropped.
func qualify(candidates []extract.Candidate, policy roundPolicy, rng *rand.Rand) []qualifiedCandidate {
	qualified := make([]qualifiedCandidate, 0, len(candidates))

	for _, c := range candidates {
		name := sanitizeName(c.Name)
		if name == "" {
			continue
		}

		ext := c.Extension
		if !policy.permitted(ext) {
			ext = policy.pick(rng)
		}

		qualified = append(qualified, qualifiedCandidate{
			Domain:    name + ext,
			Extension: ext,
			Name:      name,
			Reason:    c.Reason,
		})
	}

	return qualified
}

// sanitizeName lowercases a bare name and strips every character a domain
// label cannot carry.
func sanitizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = domainCharPattern.ReplaceAllString(name, "")
	return strings.Trim(name, ".-")
}
