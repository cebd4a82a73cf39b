// Package library filters and sorts the study resource catalog.
package library

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/vytor/nclexnav/internal/models"
)

const (
	SortPopular      = "popular"
	SortNewest       = "newest"
	SortRating       = "rating"
	SortDownloads    = "downloads"
	SortAlphabetical = "alphabetical"
)

// ValidSort reports whether s is a supported sort order. Empty means popular.
func ValidSort(s string) error {
	switch s {
	case "", SortPopular, SortNewest, SortRating, SortDownloads, SortAlphabetical:
		return nil
	}
	return fmt.Errorf("unknown sort %q", s)
}

// Apply returns the resources matching f in the order f asks for.
// The input slice is left untouched.
func Apply(resources []models.Resource, f models.ResourceFilter) []models.Resource {
	out := make([]models.Resource, 0, len(resources))
	for _, r := range resources {
		if Matches(r, f) {
			out = append(out, r)
		}
	}
	Sort(out, f.SortBy)
	return out
}

// Matches applies every filter; an empty filter list matches everything.
func Matches(r models.Resource, f models.ResourceFilter) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(r.Title), q) && !strings.Contains(strings.ToLower(r.Description), q) {
			return false
		}
	}
	if len(f.Specialties) > 0 && !slices.ContainsFunc(f.Specialties, func(s string) bool {
		return slices.Contains(r.Specialties, s)
	}) {
		return false
	}
	if len(f.ContentTypes) > 0 && !slices.Contains(f.ContentTypes, r.Type) {
		return false
	}
	if len(f.Difficulties) > 0 && !slices.Contains(f.Difficulties, r.Difficulty) {
		return false
	}
	return true
}

// Sort orders resources in place. Popular ranks featured resources first,
// then by rating-weighted downloads. Ties fall back to id.
func Sort(resources []models.Resource, by string) {
	var less func(a, b models.Resource) bool
	switch by {
	case SortNewest:
		less = func(a, b models.Resource) bool { return a.UpdatedAt.After(b.UpdatedAt) }
	case SortRating:
		less = func(a, b models.Resource) bool { return a.Rating > b.Rating }
	case SortDownloads:
		less = func(a, b models.Resource) bool { return a.Downloads > b.Downloads }
	case SortAlphabetical:
		less = func(a, b models.Resource) bool { return strings.ToLower(a.Title) < strings.ToLower(b.Title) }
	default:
		less = func(a, b models.Resource) bool {
			if a.IsFeatured != b.IsFeatured {
				return a.IsFeatured
			}
			return popularity(a) > popularity(b)
		}
	}
	sort.SliceStable(resources, func(i, j int) bool {
		a, b := resources[i], resources[j]
		if less(a, b) {
			return true
		}
		if less(b, a) {
			return false
		}
		return a.ID < b.ID
	})
}

func popularity(r models.Resource) float64 {
	return r.Rating * float64(r.Downloads)
}
