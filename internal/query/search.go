// Package query filters and ranks machines from an inventory snapshot.
// A call is a pure function of the snapshot and criteria; results are
// recomputed per call and never cached.
package query

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/PAPAMICA/wallix-ssh/internal/models"
)

// ErrInvalidPattern means the regular expression in the criteria does not
// compile. It is surfaced before any filtering happens.
var ErrInvalidPattern = errors.New("invalid filter pattern")

// Match tiers, best first. Machines with no free-text match are excluded.
const (
	rankExact = iota
	rankPrefix
	rankNameSubstring
	rankTextSubstring
	rankFuzzy
	rankNone
)

// Search returns the machines matching the criteria, ranked. With no
// free-text term the result is alphabetical by name; with a term, better
// matches come first and ties stay alphabetical. An empty snapshot yields an
// empty result and no error.
func Search(snap models.Snapshot, criteria models.FilterCriteria) ([]models.Machine, error) {
	var pattern *regexp.Regexp
	if criteria.Pattern != "" {
		// Case-insensitive, matching the original tool's behavior.
		p, err := regexp.Compile("(?i)" + criteria.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
		}
		pattern = p
	}

	var candidates []models.Machine
	for _, m := range snap.Machines {
		if !matchesServices(m, criteria.Services) {
			continue
		}
		if !matchesTags(m, criteria.Tags) {
			continue
		}
		if pattern != nil && !matchesPattern(m, pattern) {
			continue
		}
		candidates = append(candidates, m)
	}

	if criteria.Term == "" {
		sort.Slice(candidates, func(i, j int) bool {
			return candidates[i].Name < candidates[j].Name
		})
		return candidates, nil
	}

	type scored struct {
		machine models.Machine
		rank    int
	}
	var ranked []scored
	for _, m := range candidates {
		r := rankTerm(m, criteria.Term)
		if r == rankNone {
			continue
		}
		ranked = append(ranked, scored{machine: m, rank: r})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].rank != ranked[j].rank {
			return ranked[i].rank < ranked[j].rank
		}
		return ranked[i].machine.Name < ranked[j].machine.Name
	})

	out := make([]models.Machine, len(ranked))
	for i, s := range ranked {
		out[i] = s.machine
	}
	return out, nil
}

// matchesServices is an OR match: at least one required service present.
func matchesServices(m models.Machine, required []string) bool {
	if len(required) == 0 {
		return true
	}
	for _, svc := range required {
		if m.HasService(svc) {
			return true
		}
	}
	return false
}

// matchesTags is an AND match: every required key present with the exact
// value.
func matchesTags(m models.Machine, required map[string]string) bool {
	for k, v := range required {
		got, ok := m.Tags[k]
		if !ok || got != v {
			return false
		}
	}
	return true
}

func matchesPattern(m models.Machine, pattern *regexp.Regexp) bool {
	return pattern.MatchString(m.Name) ||
		pattern.MatchString(m.Host) ||
		pattern.MatchString(m.Description)
}

func rankTerm(m models.Machine, term string) int {
	name := strings.ToLower(m.Name)
	needle := strings.ToLower(term)

	switch {
	case name == needle:
		return rankExact
	case strings.HasPrefix(name, needle):
		return rankPrefix
	case strings.Contains(name, needle):
		return rankNameSubstring
	case strings.Contains(strings.ToLower(m.Host), needle),
		strings.Contains(strings.ToLower(m.Description), needle):
		return rankTextSubstring
	}
	if matches := fuzzy.Find(needle, []string{name}); len(matches) > 0 {
		return rankFuzzy
	}
	return rankNone
}
