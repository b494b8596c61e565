package sync

import "fmt"

const (
	localPathStateAbsentLabelConstant     = "absent"
	localPathStateRepositoryLabelConstant = "repository"
	localPathStateOccupiedLabelConstant   = "occupied"
	unknownStateLabelConstant             = "unknown"
	summaryTemplateConstant               = "cloned %d, updated %d, skipped %d, failed %d (total %d)"
)

// LocalPathState classifies the filesystem path a repository would occupy.
type LocalPathState int

// Local path classifications considered during reconciliation.
const (
	// LocalPathStateAbsent means nothing exists at the path yet.
	LocalPathStateAbsent LocalPathState = iota
	// LocalPathStateRepository means the path holds an existing git clone.
	LocalPathStateRepository
	// LocalPathStateOccupied means the path exists but is not a git repository.
	LocalPathStateOccupied
)

// String renders the classification for logs.
func (state LocalPathState) String() string {
	switch state {
	case LocalPathStateAbsent:
		return localPathStateAbsentLabelConstant
	case LocalPathStateRepository:
		return localPathStateRepositoryLabelConstant
	case LocalPathStateOccupied:
		return localPathStateOccupiedLabelConstant
	default:
		return unknownStateLabelConstant
	}
}

// RepositoryOutcome records how a single repository was handled.
type RepositoryOutcome int

// Repository outcome enumerations.
const (
	// OutcomeCloned indicates the repository was cloned fresh.
	OutcomeCloned RepositoryOutcome = iota
	// OutcomeUpdated indicates an existing clone was rebased onto its upstream.
	OutcomeUpdated
	// OutcomeSkipped indicates the local path was occupied by unrelated content.
	OutcomeSkipped
	// OutcomeFailed indicates the clone or update attempt failed.
	OutcomeFailed
)

// RunSummary accumulates per-repository outcomes across a synchronization run.
type RunSummary struct {
	Cloned  int
	Updated int
	Skipped int
	Failed  int
	Total   int
}

// Record tallies a single repository outcome.
func (summary *RunSummary) Record(outcome RepositoryOutcome) {
	summary.Total++
	switch outcome {
	case OutcomeCloned:
		summary.Cloned++
	case OutcomeUpdated:
		summary.Updated++
	case OutcomeSkipped:
		summary.Skipped++
	case OutcomeFailed:
		summary.Failed++
	}
}

// String renders the summary counters on a single line.
func (summary RunSummary) String() string {
	return fmt.Sprintf(summaryTemplateConstant, summary.Cloned, summary.Updated, summary.Skipped, summary.Failed, summary.Total)
}
