package main

import (
	"fmt"
)

// RestoreStage tracks progress of one backup-import flow.
type RestoreStage int

const (
	StageIdle RestoreStage = iota
	StageLoaded
	StageResolving
	StageDone
)

func (s RestoreStage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageLoaded:
		return "loaded"
	case StageResolving:
		return "resolving"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// RestoreSession walks one import through load, resolution and finalization.
// It holds no reference to the store: the caller captures the current
// collection up front and persists the outcome, so a failed or abandoned
// session leaves persisted state untouched.
type RestoreSession struct {
	stage   RestoreStage
	current []TrackedTitle
	result  *MergeResult
	mode    ResolutionMode
}

// NewRestoreSession starts an idle session over the given current collection.
func NewRestoreSession(current []TrackedTitle) *RestoreSession {
	return &RestoreSession{stage: StageIdle, current: current}
}

// Stage returns the session's current stage.
func (s *RestoreSession) Stage() RestoreStage {
	return s.stage
}

// Load parses the backup and computes the merge partition. Idle → Loaded.
// A malformed backup leaves the session idle.
func (s *RestoreSession) Load(data []byte) error {
	if s.stage != StageIdle {
		return fmt.Errorf("restore: load in stage %s", s.stage)
	}

	snapshot, err := ParseBackupSnapshot(data)
	if err != nil {
		return err
	}

	s.result = Merge(s.current, snapshot)
	s.stage = StageLoaded
	return nil
}

// Result exposes the merge partition for display (conflict count, ids).
func (s *RestoreSession) Result() *MergeResult {
	return s.result
}

// SetMode picks the resolution strategy. Loaded → Resolving.
func (s *RestoreSession) SetMode(mode ResolutionMode) error {
	if s.stage != StageLoaded {
		return fmt.Errorf("restore: resolve in stage %s", s.stage)
	}
	s.mode = mode
	s.stage = StageResolving
	return nil
}

// ToggleWatched flips one conflict during manual resolution.
func (s *RestoreSession) ToggleWatched(id int) error {
	if s.stage != StageResolving || s.mode != ResolveManual {
		return fmt.Errorf("restore: toggle outside manual resolution")
	}
	if !s.result.ToggleConflict(id) {
		return fmt.Errorf("restore: id %d is not a conflict", id)
	}
	return nil
}

// Finalize produces the final collection. Resolving → Done. The caller hands
// the result to the refresh stage and persists it; the session itself never
// writes.
func (s *RestoreSession) Finalize() ([]TrackedTitle, error) {
	if s.stage != StageResolving {
		return nil, fmt.Errorf("restore: finalize in stage %s", s.stage)
	}
	s.stage = StageDone
	return Resolve(s.result, s.mode), nil
}
