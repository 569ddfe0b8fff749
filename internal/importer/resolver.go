package importer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hrimport/candidate_importer/internal/domain"
)

type Decision int

const (
	DecisionCreate Decision = iota
	DecisionUpdate
	DecisionSkip
	DecisionReject
)

// Resolution carries the decision plus the existing record's identity when
// the decision is DecisionUpdate.
type Resolution struct {
	Decision   Decision
	ExistingID uuid.UUID
}

// DuplicateResolver decides what happens to a row whose unique key may
// already exist. Rerunning the same file is idempotent under skip, a
// reconciling upsert under update, and a strict append-only guard under
// error.
type DuplicateResolver struct {
	records RecordStore
}

func NewDuplicateResolver(records RecordStore) *DuplicateResolver {
	return &DuplicateResolver{records: records}
}

func (r *DuplicateResolver) Resolve(ctx context.Context, email string, strategy domain.DuplicateStrategy) (Resolution, error) {
	id, exists, err := r.records.FindIDByEmail(ctx, email)
	if err != nil {
		return Resolution{}, fmt.Errorf("failed to look up %q: %w", email, err)
	}

	if !exists {
		return Resolution{Decision: DecisionCreate}, nil
	}

	switch strategy {
	case domain.StrategySkip:
		return Resolution{Decision: DecisionSkip, ExistingID: id}, nil
	case domain.StrategyUpdate:
		return Resolution{Decision: DecisionUpdate, ExistingID: id}, nil
	case domain.StrategyError:
		return Resolution{Decision: DecisionReject, ExistingID: id}, nil
	default:
		return Resolution{}, fmt.Errorf("%w: %q", domain.ErrInvalidStrategy, strategy)
	}
}
