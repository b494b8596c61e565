package sync_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/burib/orgsync/internal/sync"
)

func TestRunSummaryRecordPartitionsOutcomes(testInstance *testing.T) {
	summary := sync.RunSummary{}
	outcomes := []sync.RepositoryOutcome{
		sync.OutcomeCloned,
		sync.OutcomeCloned,
		sync.OutcomeUpdated,
		sync.OutcomeSkipped,
		sync.OutcomeFailed,
	}

	for _, outcome := range outcomes {
		summary.Record(outcome)
	}

	require.Equal(testInstance, sync.RunSummary{Cloned: 2, Updated: 1, Skipped: 1, Failed: 1, Total: 5}, summary)
	require.Equal(testInstance, summary.Total, summary.Cloned+summary.Updated+summary.Skipped+summary.Failed)
	require.Equal(testInstance, "cloned 2, updated 1, skipped 1, failed 1 (total 5)", summary.String())
}

func TestLocalPathStateString(testInstance *testing.T) {
	require.Equal(testInstance, "absent", sync.LocalPathStateAbsent.String())
	require.Equal(testInstance, "repository", sync.LocalPathStateRepository.String())
	require.Equal(testInstance, "occupied", sync.LocalPathStateOccupied.String())
}
