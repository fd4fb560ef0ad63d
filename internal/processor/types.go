package processor

import "imgresize/pkg/imgutil"

// Outcome is the per-file result of a run.
type Outcome int

const (
	OutcomeResized Outcome = iota
	OutcomeSkippedExtension
	OutcomeSkippedSize
	OutcomeSkippedDimensions
	OutcomeError
)

// String returns the reason tag printed in verbose output.
func (o Outcome) String() string {
	switch o {
	case OutcomeResized:
		return "resize"
	case OutcomeSkippedExtension:
		return "extension"
	case OutcomeSkippedSize:
		return "file size"
	case OutcomeSkippedDimensions:
		return "image dimensions"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// Permission records what happened when making a read-only file writable.
type Permission int

const (
	PermissionNotNeeded Permission = iota
	PermissionCleared
	PermissionFailed
)

func (p Permission) String() string {
	switch p {
	case PermissionCleared:
		return "readonly cleared"
	case PermissionFailed:
		return "readonly clear failed"
	default:
		return "writable"
	}
}

// Stage names the step a per-file error happened in.
type Stage string

const (
	StageRead   Stage = "read"
	StageDecode Stage = "decode"
	StageWrite  Stage = "write"
	StagePanic  Stage = "panic"
)

// Candidate is a file that passed the extension and size filters.
type Candidate struct {
	Path string
	Ext  string
	Size int64
}

type Result struct {
	Candidate
	Outcome Outcome
	Stage   Stage
	Err     error

	Permission    Permission
	PermissionErr error

	Kind            imgutil.Kind
	Width           int
	Height          int
	NewWidth        int
	NewHeight       int
	BytesAfter      int64
	MetadataDropped int
	InPlace         bool // Written without the temp-file rename.
}

// Summary aggregates a run. The scan counters cover entries dropped before
// any decode; the rest cover candidates.
type Summary struct {
	SkippedExtension int
	SkippedSize      int
	ScanErrors       int

	Candidates        int
	Processed         int
	Resized           int
	SkippedDimensions int
	Errors            int
	Cancelled         int
	BytesSaved        int64
}

// ProgressUpdate carries counter deltas to a progress sink.
type ProgressUpdate struct {
	TotalDelta      int
	ProcessedDelta  int
	ResizedDelta    int
	SkippedDelta    int
	ErrorDelta      int
	BytesSavedDelta int64
}

// Phase is a step of the run state machine. Phases only move forward.
type Phase int

const (
	PhaseValidating Phase = iota
	PhaseScanning
	PhaseResizing
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseValidating:
		return "validating"
	case PhaseScanning:
		return "scanning"
	case PhaseResizing:
		return "resizing"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}
