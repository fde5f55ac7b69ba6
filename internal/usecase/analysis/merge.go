package analysis

import (
	"sort"
	"strings"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// MergeActionItems folds incoming items into the existing set. Items whose
// descriptions match case-insensitively are duplicates; the first occurrence
// wins and keeps its id. The merged set comes back in stable descending
// priority order.
func MergeActionItems(existing, incoming []entities.ActionItem) []entities.ActionItem {
	merged := make([]entities.ActionItem, 0, len(existing)+len(incoming))
	seen := make(map[string]struct{}, len(existing)+len(incoming))

	for _, item := range append(append([]entities.ActionItem{}, existing...), incoming...) {
		key := strings.ToLower(strings.TrimSpace(item.Description))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, item)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Priority.Weight() > merged[j].Priority.Weight()
	})
	return merged
}

// MergeDecisions deduplicates by case-insensitive description, first
// occurrence wins, original order kept
func MergeDecisions(existing, incoming []entities.Decision) []entities.Decision {
	merged := make([]entities.Decision, 0, len(existing)+len(incoming))
	seen := make(map[string]struct{}, len(existing)+len(incoming))

	for _, d := range append(append([]entities.Decision{}, existing...), incoming...) {
		key := strings.ToLower(strings.TrimSpace(d.Description))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, d)
	}
	return merged
}

// MergeStrings deduplicates case-insensitively, first occurrence wins
func MergeStrings(existing, incoming []string) []string {
	merged := make([]string, 0, len(existing)+len(incoming))
	seen := make(map[string]struct{}, len(existing)+len(incoming))

	for _, s := range append(append([]string{}, existing...), incoming...) {
		key := strings.ToLower(strings.TrimSpace(s))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, s)
	}
	return merged
}
