// Package extract parses free-text model output into structured domain
// candidates. Generative output is not guaranteed well-formed, so parsing is
// an ordered chain of increasingly permissive passes; a single rigid parse
// would drop entire otherwise-useful rounds.
package extract

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

const (
	reasoningOpenMarker  = "<think>"
	reasoningCloseMarker = "</think>"
)

// ErrNoCandidates is returned when no pass could recover any candidate.
var ErrNoCandidates = errors.New("no candidates could be extracted from model output")

// Candidate is one unchecked, model-proposed domain name.
type Candidate struct {
	Name      string `json:"name"`
	Extension string `json:"extension"`
	Reason    string `json:"reason,omitempty"`
}

// rawCandidate mirrors the JSON shape the model is prompted to emit.
type rawCandidate struct {
	Domain    string `json:"domain"`
	Extension string `json:"extension"`
	Reason    string `json:"reason"`
}

var (
	// A list of flat objects, no nesting.
	flatListPattern = regexp.MustCompile(`\[\s*(?:\{[^{}]*\}\s*,?\s*)+\]`)

	// Greedy span across the whole remaining text.
	greedyListPattern = regexp.MustCompile(`(?s)\[.*\]`)

	// A single object carrying a domain field, for the salvage pass.
	objectPattern = regexp.MustCompile(`\{[^{}]*"domain"\s*:\s*"[^"]*"[^{}]*\}`)
)

// Options controls optional extraction behavior.
type Options struct {
	// Salvage enables the last-resort per-object recovery pass.
	Salvage bool
}

// Extract parses raw model text into candidates. Each pass is attempted only
// if the prior one yielded nothing; when every pass comes up empty the
// caller receives ErrNoCandidates so it can degrade the round.
func Extract(raw string, opts Options) ([]Candidate, error) {
	text := stripReasoning(raw)
	text = stripCodeFences(text)

	if candidates, ok := parseBracketSpan(text); ok {
		return candidates, nil
	}
	if candidates, ok := parsePattern(flatListPattern, text); ok {
		return candidates, nil
	}
	if candidates, ok := parsePattern(greedyListPattern, text); ok {
		return candidates, nil
	}
	if opts.Salvage {
		if candidates, ok := salvageObjects(text); ok {
			return candidates, nil
		}
	}

	return nil, ErrNoCandidates
}

// stripReasoning removes a thinking preamble. When the closing marker is
// present everything up to and including it goes; an opening marker without
// a close means the preamble ran to the end of output, so everything from
// the marker onward goes instead.
func stripReasoning(text string) string {
	if idx := strings.Index(text, reasoningCloseMarker); idx != -1 {
		return text[idx+len(reasoningCloseMarker):]
	}
	if idx := strings.Index(text, reasoningOpenMarker); idx != -1 {
		return text[:idx]
	}
	return text
}

// stripCodeFences removes markdown code fence markers, keeping the fenced
// content.
func stripCodeFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return text
}

// parseBracketSpan locates the outermost [ ... ] span by first and last
// index and parses it when its bracket counts balance.
func parseBracketSpan(text string) ([]Candidate, bool) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end <= start {
		return nil, false
	}

	span := text[start : end+1]
	opens := strings.Count(span, "[") + strings.Count(span, "{")
	closes := strings.Count(span, "]") + strings.Count(span, "}")
	if opens != closes {
		return nil, false
	}

	return decodeList(span)
}

// parsePattern applies a regex and parses the first match as a candidate
// list.
func parsePattern(pattern *regexp.Regexp, text string) ([]Candidate, bool) {
	match := pattern.FindString(text)
	if match == "" {
		return nil, false
	}
	return decodeList(match)
}

// salvageObjects scans for object-shaped fragments carrying a domain field
// and recovers every one that parses on its own, discarding the rest.
func salvageObjects(text string) ([]Candidate, bool) {
	matches := objectPattern.FindAllString(text, -1)

	var candidates []Candidate
	for _, match := range matches {
		var raw rawCandidate
		if err := json.Unmarshal([]byte(match), &raw); err != nil {
			continue
		}
		if c, ok := toCandidate(raw); ok {
			candidates = append(candidates, c)
		}
	}

	return candidates, len(candidates) > 0
}

// decodeList unmarshals a JSON array of candidate objects.
func decodeList(span string) ([]Candidate, bool) {
	var raws []rawCandidate
	if err := json.Unmarshal([]byte(span), &raws); err != nil {
		return nil, false
	}

	candidates := make([]Candidate, 0, len(raws))
	for _, raw := range raws {
		if c, ok := toCandidate(raw); ok {
			candidates = append(candidates, c)
		}
	}

	if len(candidates) == 0 {
		return nil, false
	}
	return candidates, true
}

// toCandidate splits a raw domain value into name and extension. A dot in
// the domain wins over the separate extension field.
func toCandidate(raw rawCandidate) (Candidate, bool) {
	domain := strings.ToLower(strings.TrimSpace(raw.Domain))
	if domain == "" {
		return Candidate{}, false
	}

	name := domain
	extension := strings.ToLower(strings.TrimSpace(raw.Extension))
	if idx := strings.Index(domain, "."); idx != -1 {
		name = domain[:idx]
		extension = domain[idx:]
	} else if extension != "" && !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}

	if name == "" {
		return Candidate{}, false
	}

	return Candidate{
		Name:      name,
		Extension: extension,
		Reason:    strings.TrimSpace(raw.Reason),
	}, true
}
