package domain

import (
	"sort"
	"strings"
)

// RecommendationCandidate pairs a book with its overlap score against a reference.
type RecommendationCandidate struct {
	Book    Book
	Overlap int // number of categories shared with the reference
}

// SharedCategories counts how many distinct categories of candidate also
// appear in reference. Comparison is case-insensitive.
func SharedCategories(reference, candidate []string) int {
	if len(reference) == 0 || len(candidate) == 0 {
		return 0
	}

	ref := make(map[string]struct{}, len(reference))
	for _, c := range reference {
		ref[categoryKey(c)] = struct{}{}
	}

	seen := make(map[string]struct{}, len(candidate))
	count := 0
	for _, c := range candidate {
		k := categoryKey(c)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if _, ok := ref[k]; ok {
			count++
		}
	}
	return count
}

// RankByCategoryOverlap orders books by descending number of categories
// shared with the reference. The sort is stable: books with the same
// overlap keep the relevance order the catalog returned them in.
func RankByCategoryOverlap(reference Book, books []Book) []Book {
	candidates := make([]RecommendationCandidate, len(books))
	for i, b := range books {
		candidates[i] = RecommendationCandidate{
			Book:    b,
			Overlap: SharedCategories(reference.Categories, b.Categories),
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Overlap > candidates[j].Overlap
	})

	out := make([]Book, len(candidates))
	for i, c := range candidates {
		out[i] = c.Book
	}
	return out
}

// ExcludeID drops every book whose ID equals id, preserving order.
func ExcludeID(books []Book, id string) []Book {
	out := make([]Book, 0, len(books))
	for _, b := range books {
		if b.ID == id {
			continue
		}
		out = append(out, b)
	}
	return out
}

func categoryKey(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}
