package importer_test

import (
	"context"
	"testing"

	"github.com/hrimport/candidate_importer/internal/domain"
	"github.com/hrimport/candidate_importer/internal/importer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Resolve_NewRecord(t *testing.T) {
	t.Parallel()

	records := newFakeRecordStore()
	resolver := importer.NewDuplicateResolver(records)

	for _, strategy := range []domain.DuplicateStrategy{domain.StrategySkip, domain.StrategyUpdate, domain.StrategyError} {
		resolution, err := resolver.Resolve(context.Background(), "new@example.com", strategy)
		require.NoError(t, err)
		assert.Equal(t, importer.DecisionCreate, resolution.Decision, "strategy %s", strategy)
	}
}

func TestResolver_Resolve_ExistingRecord(t *testing.T) {
	t.Parallel()

	records := newFakeRecordStore()
	existingID := records.seed(&domain.Candidate{Email: "maria@example.com", FullName: "Maria Silva"})

	resolver := importer.NewDuplicateResolver(records)

	tests := []struct {
		strategy domain.DuplicateStrategy
		want     importer.Decision
	}{
		{domain.StrategySkip, importer.DecisionSkip},
		{domain.StrategyUpdate, importer.DecisionUpdate},
		{domain.StrategyError, importer.DecisionReject},
	}

	for _, tt := range tests {
		resolution, err := resolver.Resolve(context.Background(), "maria@example.com", tt.strategy)
		require.NoError(t, err)
		assert.Equal(t, tt.want, resolution.Decision, "strategy %s", tt.strategy)
		assert.Equal(t, existingID, resolution.ExistingID)
	}
}

func TestResolver_Resolve_InvalidStrategy(t *testing.T) {
	t.Parallel()

	records := newFakeRecordStore()
	records.seed(&domain.Candidate{Email: "maria@example.com"})

	resolver := importer.NewDuplicateResolver(records)

	_, err := resolver.Resolve(context.Background(), "maria@example.com", domain.DuplicateStrategy("merge"))
	require.ErrorIs(t, err, domain.ErrInvalidStrategy)
}
