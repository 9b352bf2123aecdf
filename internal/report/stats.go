package report

import "github.com/mcncl/jsondelta/internal/models"

// CalculateStats counts diffs by type in a single pass
func CalculateStats(diffs []models.DiffEntry) models.Stats {
	stats := models.Stats{Total: len(diffs)}
	for _, d := range diffs {
		switch d.Type {
		case models.DiffAdded:
			stats.Added++
		case models.DiffRemoved:
			stats.Removed++
		case models.DiffModified:
			stats.Modified++
		}
	}
	return stats
}
