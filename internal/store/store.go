// Package store owns the working proposal draft for one session. Every
// mutation synchronously writes a JSON snapshot through the snapshot
// repository; a missing or corrupt snapshot is never fatal and simply yields
// the empty draft.
package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/proposal-builder/internal/model"
)

// SnapshotRepository is the durable key-value slot the draft is mirrored to.
type SnapshotRepository interface {
	Load(ctx context.Context, sessionID uuid.UUID) ([]byte, error)
	Save(ctx context.Context, sessionID uuid.UUID, data []byte) error
	Delete(ctx context.Context, sessionID uuid.UUID) error
}

// Store holds the draft for a single session. Validation is the wizard
// controller's job; the store applies whatever it is given.
type Store struct {
	mu        sync.Mutex
	sessionID uuid.UUID
	draft     model.Proposal
	snapshots SnapshotRepository
	log       zerolog.Logger
}

// New builds a store and rehydrates the draft from a prior snapshot when one
// exists. Absent or unparseable snapshots fall back to the empty draft.
func New(ctx context.Context, sessionID uuid.UUID, snapshots SnapshotRepository, log zerolog.Logger) *Store {
	s := &Store{
		sessionID: sessionID,
		draft:     model.Empty(),
		snapshots: snapshots,
		log:       log,
	}

	data, err := snapshots.Load(ctx, sessionID)
	if err != nil {
		s.log.Debug().Err(err).Stringer("session_id", sessionID).Msg("no usable snapshot, starting empty")
		return s
	}

	var draft model.Proposal
	if err := json.Unmarshal(data, &draft); err != nil {
		s.log.Debug().Err(err).Stringer("session_id", sessionID).Msg("malformed snapshot, starting empty")
		return s
	}
	if draft.Components == nil {
		draft.Components = []model.LineItem{}
	}
	s.draft = draft
	return s
}

// Get returns a copy of the current draft.
func (s *Store) Get() model.Proposal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

// MergeProposer overwrites the proposer block of the draft, last write wins.
func (s *Store) MergeProposer(ctx context.Context, d model.ProposerDetails) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.CompanyName = d.CompanyName
	s.draft.CompanyAddress = d.CompanyAddress
	s.draft.CompanyEmail = d.CompanyEmail
	s.draft.CompanyPhone = d.CompanyPhone
	s.draft.BusinessRegNo = d.BusinessRegNo
	s.persist(ctx)
}

// MergeClient overwrites the client block of the draft, last write wins.
func (s *Store) MergeClient(ctx context.Context, d model.ClientDetails) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.ClientName = d.ClientName
	s.draft.ClientCompany = d.ClientCompany
	s.draft.ClientAddress = d.ClientAddress
	s.draft.ProjectName = d.ProjectName
	s.persist(ctx)
}

// SetLineItems replaces the line-item sequence and the currency in one
// atomic update, preserving the given order.
func (s *Store) SetLineItems(ctx context.Context, items []model.LineItem, currencyCode string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Components = model.CloneItems(items)
	s.draft.Currency = currencyCode
	s.persist(ctx)
}

// Reset replaces the draft with the canonical empty state and deletes the
// durable snapshot.
func (s *Store) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = model.Empty()
	if err := s.snapshots.Delete(ctx, s.sessionID); err != nil {
		s.log.Warn().Err(err).Stringer("session_id", s.sessionID).Msg("failed to delete snapshot")
	}
}

// persist writes the snapshot fire-and-forget: failures are logged, never
// surfaced. Callers must hold s.mu.
func (s *Store) persist(ctx context.Context) {
	data, err := json.Marshal(s.draft)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to encode snapshot")
		return
	}
	if err := s.snapshots.Save(ctx, s.sessionID, data); err != nil {
		s.log.Warn().Err(err).Stringer("session_id", s.sessionID).Msg("failed to write snapshot")
	}
}
