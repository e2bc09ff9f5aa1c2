package main

import (
	"encoding/json"
	"fmt"
)

// MalformedBackupError reports an imported file from which no title array
// could be extracted. The operation aborts and no state is mutated.
type MalformedBackupError struct {
	Reason string
}

func (e *MalformedBackupError) Error() string {
	return fmt.Sprintf("malformed backup: %s", e.Reason)
}

// BackupSnapshot is the parsed, read-only content of an imported backup.
type BackupSnapshot []TrackedTitle

// backupEnvelope lists the object keys a backup may nest its title array
// under. Shapes are tried in order; first match wins.
type backupEnvelope struct {
	Favorites json.RawMessage `json:"favorites"`
	Animes    json.RawMessage `json:"animes"`
	Dados     *struct {
		Animes json.RawMessage `json:"animes"`
	} `json:"dados"`
}

// ParseBackupSnapshot extracts the title array from a backup file. Accepted
// shapes, in order: a bare array, an object with the array under "favorites",
// under "animes", or under "dados.animes". Extra keys (such as the exporter's
// backup_date) are ignored; records tolerate extra and missing fields but
// must carry an id.
func ParseBackupSnapshot(data []byte) (BackupSnapshot, error) {
	var bare []TrackedTitle
	if err := json.Unmarshal(data, &bare); err == nil {
		return validateSnapshot(bare)
	}

	var env backupEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &MalformedBackupError{Reason: "not valid JSON"}
	}

	candidates := []json.RawMessage{env.Favorites, env.Animes}
	if env.Dados != nil {
		candidates = append(candidates, env.Dados.Animes)
	}
	for _, raw := range candidates {
		if len(raw) == 0 {
			continue
		}
		var list []TrackedTitle
		if err := json.Unmarshal(raw, &list); err != nil {
			continue
		}
		return validateSnapshot(list)
	}

	return nil, &MalformedBackupError{Reason: "no title array found"}
}

func validateSnapshot(list []TrackedTitle) (BackupSnapshot, error) {
	kept := make([]TrackedTitle, 0, len(list))
	for _, t := range list {
		// An id is the only completeness requirement; a record without a
		// usable title still merges.
		if t.ID == 0 {
			continue
		}
		kept = append(kept, t)
	}
	if len(kept) == 0 {
		return nil, &MalformedBackupError{Reason: "backup contains no titles"}
	}
	return kept, nil
}

// Conflict is a title present both on-device and in the snapshot. The
// embedded TrackedTitle starts as the snapshot's version of every field;
// the prior on-device watch state is kept alongside as the baseline a UI
// can show during manual resolution.
type Conflict struct {
	TrackedTitle

	PriorWatched  bool
	PriorEpisodes []int
}

// MergeResult is the partition of current ∪ snapshot by id. It is transient:
// consumed immediately by resolution, never persisted.
type MergeResult struct {
	// NewItems are present only in the snapshot, in snapshot order.
	NewItems []TrackedTitle
	// Conflicts are present in both, in current-collection order.
	Conflicts []Conflict
	// Untouched are present only in the current collection, in order.
	Untouched []TrackedTitle

	// order preserves the final collection ordering: current ids first,
	// then new snapshot ids.
	order []int
}

// SafeList is the unambiguous part of the merge: untouched ∪ newItems,
// written through unchanged by every resolution mode.
func (r *MergeResult) SafeList() []TrackedTitle {
	out := make([]TrackedTitle, 0, len(r.Untouched)+len(r.NewItems))
	out = append(out, r.Untouched...)
	out = append(out, r.NewItems...)
	return out
}

// ConflictIDs returns the conflicting ids in order.
func (r *MergeResult) ConflictIDs() []int {
	ids := make([]int, 0, len(r.Conflicts))
	for _, c := range r.Conflicts {
		ids = append(ids, c.ID)
	}
	return ids
}

// Merge partitions the union of the current collection and a snapshot by id.
// Pure function of its inputs: re-running with the same arguments yields an
// identical result. Duplicate ids inside the snapshot collapse to the last
// occurrence, matching the exporting client.
func Merge(current []TrackedTitle, snapshot BackupSnapshot) *MergeResult {
	currentByID := make(map[int]TrackedTitle, len(current))
	for _, t := range current {
		currentByID[t.ID] = t
	}

	snapByID := make(map[int]TrackedTitle, len(snapshot))
	snapOrder := make([]int, 0, len(snapshot))
	for _, t := range snapshot {
		if _, seen := snapByID[t.ID]; !seen {
			snapOrder = append(snapOrder, t.ID)
		}
		snapByID[t.ID] = t
	}

	result := &MergeResult{}

	for _, t := range current {
		result.order = append(result.order, t.ID)
		snap, inSnapshot := snapByID[t.ID]
		if !inSnapshot {
			result.Untouched = append(result.Untouched, t)
			continue
		}
		result.Conflicts = append(result.Conflicts, Conflict{
			TrackedTitle:  snap,
			PriorWatched:  t.Watched,
			PriorEpisodes: t.WatchedEpisodes,
		})
	}

	for _, id := range snapOrder {
		if _, onDevice := currentByID[id]; onDevice {
			continue
		}
		result.order = append(result.order, id)
		result.NewItems = append(result.NewItems, snapByID[id])
	}

	return result
}

// ResolutionMode is the bulk decision applied to every conflict.
type ResolutionMode string

const (
	// ResolveAllWatched marks every conflict watched, filling the episode
	// set when the episode count is known.
	ResolveAllWatched ResolutionMode = "watched"
	// ResolveAllUnwatched marks every conflict unwatched with no episodes.
	ResolveAllUnwatched ResolutionMode = "unwatched"
	// ResolveManual applies no bulk effect; per-conflict toggles decide.
	ResolveManual ResolutionMode = "manual"
)

// ParseResolutionMode validates user input for the resolution step.
func ParseResolutionMode(s string) (ResolutionMode, error) {
	switch ResolutionMode(s) {
	case ResolveAllWatched, ResolveAllUnwatched, ResolveManual:
		return ResolutionMode(s), nil
	default:
		return "", fmt.Errorf("unknown resolution mode %q (want watched, unwatched or manual)", s)
	}
}

// Resolve produces the final collection: safeList ∪ resolved conflicts, in
// stable order (current collection first, then new snapshot items). The
// input MergeResult is not modified; persistence is the caller's job.
func Resolve(result *MergeResult, mode ResolutionMode) []TrackedTitle {
	resolved := make(map[int]TrackedTitle, len(result.Conflicts))
	for _, c := range result.Conflicts {
		item := c.TrackedTitle
		switch mode {
		case ResolveAllWatched:
			item.Watched = true
			if item.TotalEpisodes != nil && *item.TotalEpisodes > 0 {
				item.WatchedEpisodes = fullEpisodeSet(*item.TotalEpisodes)
			}
		case ResolveAllUnwatched:
			item.Watched = false
			item.WatchedEpisodes = nil
		case ResolveManual:
			// Keep whatever state the per-item toggles left on the conflict.
		}
		resolved[item.ID] = item
	}

	byID := make(map[int]TrackedTitle, len(result.order))
	for _, t := range result.Untouched {
		byID[t.ID] = t
	}
	for _, t := range result.NewItems {
		byID[t.ID] = t
	}
	for id, t := range resolved {
		byID[id] = t
	}

	out := make([]TrackedTitle, 0, len(result.order))
	for _, id := range result.order {
		out = append(out, byID[id])
	}
	return out
}

// ToggleConflict flips the watched state of one conflict in place, applying
// the full/empty episode-set rule. Used by manual resolution. Returns false
// when the id is not a conflict.
func (r *MergeResult) ToggleConflict(id int) bool {
	for i := range r.Conflicts {
		if r.Conflicts[i].ID != id {
			continue
		}
		r.Conflicts[i].setWatched(!r.Conflicts[i].Watched)
		return true
	}
	return false
}
