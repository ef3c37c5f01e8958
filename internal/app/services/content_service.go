package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/polycampus/backend/internal/app/models"
	"github.com/polycampus/backend/internal/app/schema"
	"github.com/polycampus/backend/internal/pkg/apperrors"
	"github.com/polycampus/backend/internal/pkg/metrics"
)

// ContentStore is the narrow store contract the coordinator depends on:
// per-collection list/insert/update/delete with server-side ordering.
type ContentStore interface {
	List(ctx context.Context) ([]models.Entity, error)
	Insert(ctx context.Context, rec schema.Record) (models.Entity, error)
	Update(ctx context.Context, id uuid.UUID, rec schema.Record) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Guard resolves the current session identity and its capabilities. The
// coordinator refuses every write when the identity is absent or lacks the
// admin capability; it is the sole authorization checkpoint for mutations.
type Guard interface {
	Identity(ctx context.Context) (models.Identity, bool)
	HasCapability(ctx context.Context, identity models.Identity, capability string) (bool, error)
}

// MutationState is the coordinator's per-kind mutation state.
// Transitions: Idle -> Submitting -> (Succeeded | Failed); the next
// mutation moves the machine back through Submitting.
type MutationState string

const (
	StateIdle       MutationState = "idle"
	StateSubmitting MutationState = "submitting"
	StateSucceeded  MutationState = "succeeded"
	StateFailed     MutationState = "failed"
)

// ContentService coordinates mutations for one content kind: it gates them
// behind the session guard, validates input against the kind's schema,
// forwards to the store, and keeps the cached list consistent with server
// state. The cached list is never mutated optimistically: on success the
// cache is invalidated and re-read, on failure it is left untouched. A
// failed mutation is not retried; retry takes a new explicit submission.
type ContentService struct {
	kind    schema.Kind
	store   ContentStore
	guard   Guard
	metrics *metrics.Metrics
	logger  zerolog.Logger

	mu         sync.Mutex
	cache      []models.Entity
	cacheValid bool
	editTarget *uuid.UUID
	state      MutationState
}

// NewContentService creates the coordinator for one content kind.
func NewContentService(kind schema.Kind, store ContentStore, guard Guard, m *metrics.Metrics, logger zerolog.Logger) *ContentService {
	return &ContentService{
		kind:    kind,
		store:   store,
		guard:   guard,
		metrics: m,
		logger:  logger.With().Str("kind", string(kind)).Logger(),
		state:   StateIdle,
	}
}

// Kind returns the content kind this coordinator serves.
func (s *ContentService) Kind() schema.Kind {
	return s.kind
}

// List returns the ordered records of the kind, serving the cached list when
// it is still valid and re-fetching from the store otherwise.
func (s *ContentService) List(ctx context.Context) ([]models.Entity, error) {
	s.mu.Lock()
	if s.cacheValid {
		cached := cloneEntities(s.cache)
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	entities, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache = entities
	s.cacheValid = true
	cached := cloneEntities(entities)
	s.mu.Unlock()

	return cached, nil
}

// Create validates raw input and inserts a new record. The store assigns the
// identifier.
func (s *ContentService) Create(ctx context.Context, raw map[string]any) (models.Entity, error) {
	if err := s.authorize(ctx); err != nil {
		return models.Entity{}, err
	}

	rec, err := schema.Validate(s.kind, raw)
	if err != nil {
		return models.Entity{}, err
	}

	s.begin()
	entity, err := s.store.Insert(ctx, rec)
	if err != nil {
		s.fail("create", err)
		return models.Entity{}, err
	}

	s.succeed("create")
	s.logger.Info().Str("id", entity.ID.String()).Msg("Content record created")
	return entity, nil
}

// Update validates raw input and replaces all declared fields of the record
// identified by id. Last write wins.
func (s *ContentService) Update(ctx context.Context, id uuid.UUID, raw map[string]any) error {
	if err := s.authorize(ctx); err != nil {
		return err
	}

	rec, err := schema.Validate(s.kind, raw)
	if err != nil {
		return err
	}

	s.begin()
	if err := s.store.Update(ctx, id, rec); err != nil {
		s.fail("update", err)
		return err
	}

	s.succeed("update")
	s.logger.Info().Str("id", id.String()).Msg("Content record updated")
	return nil
}

// Delete removes the record identified by id. Deleting an id that is already
// gone is not an error.
func (s *ContentService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.authorize(ctx); err != nil {
		return err
	}

	s.begin()
	if err := s.store.Delete(ctx, id); err != nil {
		s.fail("delete", err)
		return err
	}

	s.succeed("delete")
	s.logger.Info().Str("id", id.String()).Msg("Content record deleted")
	return nil
}

// BeginEdit marks id as the record currently being edited. Selecting a new
// target silently replaces the previous one; unsaved form state is the
// client's to lose.
func (s *ContentService) BeginEdit(id uuid.UUID) {
	s.mu.Lock()
	s.editTarget = &id
	s.mu.Unlock()
}

// ClearEdit resets the edit target to none.
func (s *ContentService) ClearEdit() {
	s.mu.Lock()
	s.editTarget = nil
	s.mu.Unlock()
}

// EditTarget returns the identifier currently being edited, if any.
func (s *ContentService) EditTarget() (uuid.UUID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editTarget == nil {
		return uuid.UUID{}, false
	}
	return *s.editTarget, true
}

// State returns the coordinator's current mutation state.
func (s *ContentService) State() MutationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// InvalidateCache forces the next List to re-fetch from the store.
func (s *ContentService) InvalidateCache() {
	s.mu.Lock()
	s.invalidateLocked()
	s.mu.Unlock()
}

func (s *ContentService) authorize(ctx context.Context) error {
	identity, ok := s.guard.Identity(ctx)
	if !ok {
		return apperrors.ErrAuthenticationRequired
	}

	allowed, err := s.guard.HasCapability(ctx, identity, models.RoleAdmin)
	if err != nil {
		return err
	}
	if !allowed {
		return apperrors.ErrPermissionDenied
	}

	return nil
}

func (s *ContentService) begin() {
	s.mu.Lock()
	s.state = StateSubmitting
	s.mu.Unlock()
}

func (s *ContentService) succeed(operation string) {
	s.mu.Lock()
	s.state = StateSucceeded
	s.invalidateLocked()
	s.editTarget = nil
	s.mu.Unlock()

	s.metrics.Mutations.WithLabelValues(string(s.kind), operation, "success").Inc()
}

// fail leaves the cached list untouched so readers keep seeing the last
// authoritative state.
func (s *ContentService) fail(operation string, err error) {
	s.mu.Lock()
	s.state = StateFailed
	s.mu.Unlock()

	s.metrics.Mutations.WithLabelValues(string(s.kind), operation, "failure").Inc()
	s.logger.Error().Err(err).Str("operation", operation).Msg("Content mutation failed")
}

func (s *ContentService) invalidateLocked() {
	s.cache = nil
	s.cacheValid = false
	s.metrics.CacheInvalidations.WithLabelValues(string(s.kind)).Inc()
}

func cloneEntities(entities []models.Entity) []models.Entity {
	out := make([]models.Entity, len(entities))
	copy(out, entities)
	return out
}
