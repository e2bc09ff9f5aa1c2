package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// genreNames maps the catalog's fixed genre ids to display names. Used to
// validate genre queries and label output.
var genreNames = map[int]string{
	1:  "Action",
	2:  "Adventure",
	4:  "Comedy",
	6:  "Demons",
	7:  "Mystery",
	8:  "Drama",
	9:  "Ecchi",
	10: "Fantasy",
	11: "Game",
	12: "Hentai",
	13: "Historical",
	14: "Horror",
	15: "Kids",
	17: "Martial Arts",
	18: "Mecha",
	22: "Romance",
	23: "School",
	24: "Sci-Fi",
	25: "Shoujo",
	26: "Girls Love",
	27: "Shounen",
	28: "Boys Love",
	30: "Sports",
	31: "Super Power",
	35: "Harem",
	36: "Slice of Life",
	37: "Supernatural",
	38: "Military",
	40: "Psychological",
	41: "Suspense",
	42: "Seinen",
	43: "Josei",
	62: "Isekai",
}

// ParseGenreIDs parses a comma-separated genre-id list, rejecting ids the
// catalog does not define.
func ParseGenreIDs(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	ids := make([]int, 0, len(parts))
	seen := make(map[int]struct{}, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid genre id %q", part)
		}
		if _, ok := genreNames[id]; !ok {
			return nil, fmt.Errorf("unknown genre id %d", id)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("no genre ids given")
	}
	return ids, nil
}

// GenreLabel renders a genre-id set for display, e.g. "Action, Mecha".
func GenreLabel(ids []int) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := genreNames[id]; ok {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

// KnownGenres lists all genre ids in ascending order, for help output.
func KnownGenres() []int {
	ids := make([]int, 0, len(genreNames))
	for id := range genreNames {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
