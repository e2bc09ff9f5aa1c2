package main

import (
	"context"
	"fmt"
	"strings"
)

func printRecordLine(ctx context.Context, n int, rec TitleRecord) {
	LogInfo(ctx, "%3d. %s%s", n, rec.Title, recordSuffix(rec))
}

func printTrackedLine(ctx context.Context, n int, t TrackedTitle) {
	marks := make([]string, 0, 2)
	if t.IsFavorite {
		marks = append(marks, "fav")
	}
	if t.Watched {
		marks = append(marks, "watched")
	} else if len(t.WatchedEpisodes) > 0 {
		marks = append(marks, fmt.Sprintf("%d eps", len(t.WatchedEpisodes)))
	}
	suffix := titleSuffix(t.ID, t.Score, t.TotalEpisodes, 0)
	if len(marks) > 0 {
		suffix += " [" + strings.Join(marks, ", ") + "]"
	}
	LogInfo(ctx, "%3d. %s%s", n, t.Title, suffix)
}

func recordSuffix(rec TitleRecord) string {
	return titleSuffix(rec.ID, rec.Score, rec.Episodes, rec.Year)
}

func titleSuffix(id int, score *float64, episodes *int, year int) string {
	parts := make([]string, 0, 3)
	if score != nil {
		parts = append(parts, fmt.Sprintf("score %.2f", *score))
	}
	if episodes != nil {
		parts = append(parts, fmt.Sprintf("%d ep", *episodes))
	}
	if year != 0 {
		parts = append(parts, fmt.Sprintf("%d", year))
	}
	if len(parts) == 0 {
		return fmt.Sprintf(" (#%d)", id)
	}
	return fmt.Sprintf(" (#%d, %s)", id, strings.Join(parts, ", "))
}
