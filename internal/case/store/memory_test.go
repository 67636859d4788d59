package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"caseflow/internal/case/models"
	id "caseflow/pkg/domain"
	"caseflow/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
}

func newTestCase(caseID string) *models.Case {
	return &models.Case{
		ID:               id.CaseID(caseID),
		ArchiveID:        "journal-1",
		DocumentIDs:      []id.DocumentID{"doc-1"},
		SubjectID:        "subject-1",
		SubjectBirthDate: time.Date(1984, 5, 2, 0, 0, 0, 0, time.UTC),
		Kind:             id.CaseKindDomesticPaper,
		Status:           models.CaseStatusReceived,
		CreatedAt:        time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (s *MemoryStoreSuite) TestUpsertFromIngestionIdempotent() {
	ctx := context.Background()
	first := newTestCase("case-1")
	s.Require().NoError(s.store.UpsertFromIngestion(ctx, first))

	// Replay with a different created timestamp; must be a no-op.
	replay := newTestCase("case-1")
	replay.CreatedAt = replay.CreatedAt.Add(time.Hour)
	s.Require().NoError(s.store.UpsertFromIngestion(ctx, replay))

	got, err := s.store.GetByID(ctx, "case-1")
	s.Require().NoError(err)
	s.Equal(first.CreatedAt, got.CreatedAt, "created timestamp unchanged on replay")
}

func (s *MemoryStoreSuite) TestGetByIDNotFound() {
	_, err := s.store.GetByID(context.Background(), "missing")
	s.Require().Error(err)
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *MemoryStoreSuite) TestGetByIDReturnsCopy() {
	ctx := context.Background()
	s.Require().NoError(s.store.UpsertFromIngestion(ctx, newTestCase("case-1")))

	got, err := s.store.GetByID(ctx, "case-1")
	s.Require().NoError(err)
	got.Status = models.CaseStatusBlocked

	again, err := s.store.GetByID(ctx, "case-1")
	s.Require().NoError(err)
	s.Equal(models.CaseStatusReceived, again.Status, "mutating a returned case must not touch the store")
}

func (s *MemoryStoreSuite) TestMarkFinalizedConflictOnSecondCall() {
	ctx := context.Background()
	s.Require().NoError(s.store.UpsertFromIngestion(ctx, newTestCase("case-1")))

	now := time.Now()
	s.Require().NoError(s.store.MarkFinalized(ctx, "case-1", models.OutcomeAccepted, "", "Z990123", now))

	err := s.store.MarkFinalized(ctx, "case-1", models.OutcomeRejected, "late", "Z990124", now)
	s.Require().Error(err)
	s.True(errors.Is(err, sentinel.ErrConflict))

	got, err := s.store.GetByID(ctx, "case-1")
	s.Require().NoError(err)
	s.Equal(models.OutcomeAccepted, *got.Outcome, "first writer wins")
}

func (s *MemoryStoreSuite) TestConcurrentFinalizeExactlyOneWinner() {
	ctx := context.Background()
	s.Require().NoError(s.store.UpsertFromIngestion(ctx, newTestCase("case-1")))

	const goroutines = 50
	var wg sync.WaitGroup
	var successCount, conflictCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.MarkFinalized(ctx, "case-1", models.OutcomeAccepted, "", "Z990123", time.Now())
			if err == nil {
				successCount.Add(1)
			} else if errors.Is(err, sentinel.ErrConflict) {
				conflictCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one finalize should win")
	s.Equal(int32(goroutines-1), conflictCount.Load())
}

func (s *MemoryStoreSuite) TestUpdatePayload() {
	ctx := context.Background()

	s.Run("rejected after finalization", func() {
		s.Require().NoError(s.store.UpsertFromIngestion(ctx, newTestCase("case-f")))
		s.Require().NoError(s.store.MarkFinalized(ctx, "case-f", models.OutcomeAccepted, "", "Z990123", time.Now()))

		err := s.store.UpdatePayload(ctx, "case-f", models.Payload{}, "Z990123")
		s.Require().Error(err)
		s.True(errors.Is(err, sentinel.ErrConflict))
	})

	s.Run("clears a blocked status", func() {
		s.Require().NoError(s.store.UpsertFromIngestion(ctx, newTestCase("case-b")))
		s.Require().NoError(s.store.SetStatus(ctx, "case-b", models.CaseStatusBlocked))

		s.Require().NoError(s.store.UpdatePayload(ctx, "case-b", models.Payload{Notes: "corrected"}, "Z990123"))

		got, err := s.store.GetByID(ctx, "case-b")
		s.Require().NoError(err)
		s.Equal(models.CaseStatusReceived, got.Status)
		s.Equal("corrected", got.Payload.Notes)
		s.Equal(id.ActorID("Z990123"), got.Owner)
	})
}
