package main

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FilterOption selects which tracked titles appear in a display list.
type FilterOption string

const (
	FilterAll       FilterOption = "all"
	FilterWatched   FilterOption = "watched"
	FilterUnwatched FilterOption = "unwatched"
	FilterSeasonal  FilterOption = "seasonal"
)

// SortOption selects the ordering of a display list.
type SortOption string

const (
	SortAZ     SortOption = "az"
	SortScore  SortOption = "score"
	SortNewest SortOption = "newest"
	SortOldest SortOption = "oldest"
)

// titleCollator compares titles the way a locale-aware UI would, not by
// byte order.
var titleCollator = collate.New(language.Und, collate.Loose)

// BuildDisplayList applies a status filter then a sort order to a tracked
// collection. Pure function: the input slice is left untouched, ties keep
// their filtered order, and recomputing on every input change is safe.
func BuildDisplayList(list []TrackedTitle, filter FilterOption, sortBy SortOption) []TrackedTitle {
	result := make([]TrackedTitle, 0, len(list))

	for _, item := range list {
		switch filter {
		case FilterWatched:
			if !item.Watched {
				continue
			}
		case FilterUnwatched:
			if item.Watched {
				continue
			}
		case FilterSeasonal:
			if item.AirStatus() != AirStatusAiring {
				continue
			}
		default:
			// FilterAll and anything unrecognized keep everything.
		}
		result = append(result, item)
	}

	switch sortBy {
	case SortAZ:
		sort.SliceStable(result, func(i, j int) bool {
			return titleCollator.CompareString(result[i].Title, result[j].Title) < 0
		})
	case SortScore:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].ScoreOrZero() > result[j].ScoreOrZero()
		})
	case SortNewest:
		sort.SliceStable(result, func(i, j int) bool {
			ti, _ := result[i].StartTime()
			tj, _ := result[j].StartTime()
			return ti.After(tj)
		})
	case SortOldest:
		sort.SliceStable(result, func(i, j int) bool {
			ti, _ := result[i].StartTime()
			tj, _ := result[j].StartTime()
			return ti.Before(tj)
		})
	}

	return result
}

// ParseFilterOption maps user input onto a filter selector; anything
// unrecognized behaves as "all".
func ParseFilterOption(s string) FilterOption {
	switch FilterOption(s) {
	case FilterWatched, FilterUnwatched, FilterSeasonal:
		return FilterOption(s)
	default:
		return FilterAll
	}
}

// ParseSortOption maps user input onto a sort selector, defaulting to "az".
func ParseSortOption(s string) SortOption {
	switch SortOption(s) {
	case SortScore, SortNewest, SortOldest:
		return SortOption(s)
	default:
		return SortAZ
	}
}
