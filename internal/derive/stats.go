package derive

import (
	"sort"

	"gitea.jw6.us/james/traindesk/internal/domain"
)

// ActivityStats groups trainings by exact activity name and sums durations
// per group. Pure. Totals are always recomputed from the full collection,
// never updated incrementally. A training with an unknown duration still
// creates or keeps its group but contributes nothing to the total. The result
// is sorted by total descending; ties keep first-appearance order.
func ActivityStats(trainings []domain.Training, palette Palette) []domain.ActivityStat {
	index := make(map[string]int, len(trainings))
	stats := make([]domain.ActivityStat, 0, len(trainings))

	for _, t := range trainings {
		i, ok := index[t.Activity]
		if !ok {
			i = len(stats)
			index[t.Activity] = i
			stats = append(stats, domain.ActivityStat{
				Activity: t.Activity,
				Fill:     palette.StatColor(t.Activity),
			})
		}
		if t.Duration.Valid {
			stats[i].TotalMinutes += t.Duration.Value
		}
	}

	sort.SliceStable(stats, func(a, b int) bool {
		return stats[a].TotalMinutes > stats[b].TotalMinutes
	})
	return stats
}
