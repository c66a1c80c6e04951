package ui

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"gitea.jw6.us/james/traindesk/internal/derive"
)

func TestKnownActivitiesDedupesSpellingVariants(t *testing.T) {
	p := derive.DefaultPalette()
	names := knownActivities(p)

	require.True(t, sort.StringsAreSorted(names))

	lower := make(map[string]bool, len(names))
	for _, n := range names {
		require.False(t, lower[strings.ToLower(n)], "duplicate spelling shown: %s", n)
		lower[strings.ToLower(n)] = true
	}
	require.True(t, lower["gym training"])

	// Both table keys stay live for color lookup.
	require.Equal(t, p.Activities["Gym training"], p.Activities["Gym Training"])
	require.Len(t, names, len(p.Activities)-1)
}
