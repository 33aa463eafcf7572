package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PAPAMICA/wallix-ssh/internal/models"
)

func snapshotOf(machines ...models.Machine) models.Snapshot {
	return models.Snapshot{
		Version:   models.SnapshotVersion,
		FetchedAt: time.Now(),
		Machines:  machines,
	}
}

func names(machines []models.Machine) []string {
	out := make([]string, len(machines))
	for i, m := range machines {
		out[i] = m.Name
	}
	return out
}

func TestSearchEmptyCriteriaMatchesAllAlphabetically(t *testing.T) {
	snap := snapshotOf(
		models.Machine{Name: "zebra", Services: []string{models.ServiceSSH}},
		models.Machine{Name: "alpha", Services: []string{models.ServiceSSH}},
		models.Machine{Name: "mike", Services: []string{models.ServiceSSH}},
	)

	got, err := Search(snap, models.FilterCriteria{})
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mike", "zebra"}, names(got))

	// Idempotent: a second call over the same input yields the same order.
	again, err := Search(snap, models.FilterCriteria{})
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestSearchEmptySnapshot(t *testing.T) {
	got, err := Search(models.Snapshot{}, models.FilterCriteria{Term: "web"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearchServicesOrMatch(t *testing.T) {
	snap := snapshotOf(
		models.Machine{Name: "web-1", Services: []string{models.ServiceSSH}, Tags: map[string]string{"env": "prod"}},
		models.Machine{Name: "web-2", Services: []string{models.ServiceRDP}, Tags: map[string]string{"env": "test"}},
	)

	got, err := Search(snap, models.FilterCriteria{Services: []string{models.ServiceSSH}})
	require.NoError(t, err)
	assert.Equal(t, []string{"web-1"}, names(got))

	both, err := Search(snap, models.FilterCriteria{Services: []string{models.ServiceSSH, models.ServiceRDP}})
	require.NoError(t, err)
	assert.Equal(t, []string{"web-1", "web-2"}, names(both))
}

func TestSearchTagAndMatch(t *testing.T) {
	snap := snapshotOf(
		models.Machine{Name: "a", Services: []string{models.ServiceSSH}, Tags: map[string]string{"env": "prod", "team": "infra"}},
		models.Machine{Name: "b", Services: []string{models.ServiceSSH}, Tags: map[string]string{"env": "prod"}},
		models.Machine{Name: "c", Services: []string{models.ServiceSSH}, Tags: map[string]string{"env": "test"}},
		models.Machine{Name: "d", Services: []string{models.ServiceSSH}},
	)

	got, err := Search(snap, models.FilterCriteria{Tags: map[string]string{"env": "prod"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names(got))

	got, err = Search(snap, models.FilterCriteria{Tags: map[string]string{"env": "prod", "team": "infra"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, names(got))
}

func TestSearchPattern(t *testing.T) {
	snap := snapshotOf(
		models.Machine{Name: "db-prod-01", Services: []string{models.ServiceSSH}},
		models.Machine{Name: "web-prod-01", Services: []string{models.ServiceSSH}, Description: "nginx frontend"},
		models.Machine{Name: "bastion", Host: "gw.example.com", Services: []string{models.ServiceSSH}},
	)

	got, err := Search(snap, models.FilterCriteria{Pattern: `^db-`})
	require.NoError(t, err)
	assert.Equal(t, []string{"db-prod-01"}, names(got))

	// Pattern matches host and description too, case-insensitively.
	got, err = Search(snap, models.FilterCriteria{Pattern: `NGINX|example\.com`})
	require.NoError(t, err)
	assert.Equal(t, []string{"bastion", "web-prod-01"}, names(got))
}

func TestSearchInvalidPattern(t *testing.T) {
	snap := snapshotOf(models.Machine{Name: "web-1", Services: []string{models.ServiceSSH}})

	_, err := Search(snap, models.FilterCriteria{Pattern: `([`})
	assert.ErrorIs(t, err, ErrInvalidPattern)
}

func TestSearchTermRanking(t *testing.T) {
	snap := snapshotOf(
		models.Machine{Name: "backend-web", Services: []string{models.ServiceSSH}},
		models.Machine{Name: "web", Services: []string{models.ServiceSSH}},
		models.Machine{Name: "web-2", Services: []string{models.ServiceSSH}},
		models.Machine{Name: "web-1", Services: []string{models.ServiceSSH}},
		models.Machine{Name: "docs", Services: []string{models.ServiceSSH}, Description: "web documentation"},
		models.Machine{Name: "mail", Services: []string{models.ServiceSSH}},
	)

	got, err := Search(snap, models.FilterCriteria{Term: "web"})
	require.NoError(t, err)
	// exact > prefix (alphabetical among themselves) > name substring >
	// description substring; "mail" has no match at all.
	assert.Equal(t, []string{"web", "web-1", "web-2", "backend-web", "docs"}, names(got))
}

func TestSearchTermCaseInsensitive(t *testing.T) {
	snap := snapshotOf(models.Machine{Name: "WEB-1", Services: []string{models.ServiceSSH}})

	got, err := Search(snap, models.FilterCriteria{Term: "web"})
	require.NoError(t, err)
	assert.Equal(t, []string{"WEB-1"}, names(got))
}

func TestSearchFuzzyFallback(t *testing.T) {
	snap := snapshotOf(
		models.Machine{Name: "production-web-server", Services: []string{models.ServiceSSH}},
		models.Machine{Name: "mail", Services: []string{models.ServiceSSH}},
	)

	// "pws" is not a substring but matches fuzzily against the name.
	got, err := Search(snap, models.FilterCriteria{Term: "pws"})
	require.NoError(t, err)
	assert.Equal(t, []string{"production-web-server"}, names(got))
}

func TestSearchWorkedExample(t *testing.T) {
	web1 := models.Machine{Name: "web-1", Services: []string{models.ServiceSSH}, Tags: map[string]string{"env": "prod"}}
	web2 := models.Machine{Name: "web-2", Services: []string{models.ServiceRDP}, Tags: map[string]string{"env": "test"}}
	snap := snapshotOf(web1, web2)

	bySvc, err := Search(snap, models.FilterCriteria{Services: []string{models.ServiceSSH}})
	require.NoError(t, err)
	assert.Equal(t, []string{"web-1"}, names(bySvc))

	byTerm, err := Search(snap, models.FilterCriteria{Term: "web"})
	require.NoError(t, err)
	assert.Equal(t, []string{"web-1", "web-2"}, names(byTerm))
}
