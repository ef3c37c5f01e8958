package services

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polycampus/backend/internal/app/models"
	"github.com/polycampus/backend/internal/app/schema"
	"github.com/polycampus/backend/internal/pkg/apperrors"
	"github.com/polycampus/backend/internal/pkg/metrics"
)

// fakeStore is an in-memory ContentStore that records every call, sorts
// lists per the kind's ordering rule and can be told to fail the next
// operation.
type fakeStore struct {
	mu       sync.Mutex
	kind     schema.Kind
	entities []models.Entity
	arrival  map[uuid.UUID]int
	seq      int
	calls    []string
	failNext error
}

func newFakeStore(kind schema.Kind) *fakeStore {
	return &fakeStore{kind: kind, arrival: make(map[uuid.UUID]int)}
}

func (f *fakeStore) record(op string) error {
	f.calls = append(f.calls, op)
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return err
	}
	return nil
}

func (f *fakeStore) List(ctx context.Context) ([]models.Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("list"); err != nil {
		return nil, err
	}

	out := make([]models.Entity, len(f.entities))
	copy(out, f.entities)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch f.kind {
		case schema.KindNotice:
			if a.Fields["date"] != b.Fields["date"] {
				return a.Fields["date"].(string) > b.Fields["date"].(string)
			}
		case schema.KindRoutine:
			if a.Fields["semester"] != b.Fields["semester"] {
				return a.Fields["semester"].(string) < b.Fields["semester"].(string)
			}
			if a.Fields["display_order"] != b.Fields["display_order"] {
				return a.Fields["display_order"].(int) < b.Fields["display_order"].(int)
			}
		default:
			if a.Fields["display_order"] != b.Fields["display_order"] {
				return a.Fields["display_order"].(int) < b.Fields["display_order"].(int)
			}
		}
		return f.arrival[a.ID] < f.arrival[b.ID]
	})
	return out, nil
}

func (f *fakeStore) Insert(ctx context.Context, rec schema.Record) (models.Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("insert"); err != nil {
		return models.Entity{}, err
	}

	entity := models.Entity{ID: uuid.New(), Fields: rec}
	f.seq++
	f.arrival[entity.ID] = f.seq
	f.entities = append(f.entities, entity)
	return entity, nil
}

func (f *fakeStore) Update(ctx context.Context, id uuid.UUID, rec schema.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("update"); err != nil {
		return err
	}

	for i := range f.entities {
		if f.entities[i].ID == id {
			f.entities[i].Fields = rec
			return nil
		}
	}
	return apperrors.NewStoreError("update", apperrors.ErrResourceNotFound)
}

func (f *fakeStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("delete"); err != nil {
		return err
	}

	for i := range f.entities {
		if f.entities[i].ID == id {
			f.entities = append(f.entities[:i], f.entities[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeStore) writes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, call := range f.calls {
		if call != "list" {
			out = append(out, call)
		}
	}
	return out
}

func (f *fakeStore) listCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, call := range f.calls {
		if call == "list" {
			n++
		}
	}
	return n
}

// fakeGuard resolves a fixed identity and capability answer.
type fakeGuard struct {
	identity *models.Identity
	admin    bool
}

func (g *fakeGuard) Identity(ctx context.Context) (models.Identity, bool) {
	if g.identity == nil {
		return models.Identity{}, false
	}
	return *g.identity, true
}

func (g *fakeGuard) HasCapability(ctx context.Context, identity models.Identity, capability string) (bool, error) {
	return g.admin, nil
}

func adminGuard() *fakeGuard {
	return &fakeGuard{identity: &models.Identity{UserID: 1, Email: "admin@example.edu"}, admin: true}
}

func newTestService(kind schema.Kind) (*ContentService, *fakeStore) {
	store := newFakeStore(kind)
	svc := NewContentService(kind, store, adminGuard(), metrics.New(), zerolog.Nop())
	return svc, store
}

func facultyInput(name string, order int) map[string]any {
	return map[string]any{
		"name":          name,
		"designation":   "Lecturer",
		"department":    "Computer Technology",
		"education":     "MSc in CSE",
		"email":         "someone@example.edu",
		"phone":         "+880-1700-000000",
		"display_order": order,
	}
}

func noticeInput(title, date string) map[string]any {
	return map[string]any{
		"title":    title,
		"content":  "Details to follow.",
		"category": "Academic",
		"priority": "medium",
		"date":     date,
	}
}

func TestCreateThenListRoundTrip(t *testing.T) {
	svc, _ := newTestService(schema.KindFaculty)
	ctx := context.Background()

	created, err := svc.Create(ctx, facultyInput("Dr. Karim", 1))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.UUID{}, created.ID, "store assigns the identifier")

	listed, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
	assert.Equal(t, "Dr. Karim", listed[0].Fields["name"])
}

func TestUpdateReflectsUnderSameIdentifier(t *testing.T) {
	svc, _ := newTestService(schema.KindFaculty)
	ctx := context.Background()

	created, err := svc.Create(ctx, facultyInput("Dr. Karim", 1))
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, created.ID, facultyInput("Dr. Karim Uddin", 1)))

	listed, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
	assert.Equal(t, "Dr. Karim Uddin", listed[0].Fields["name"])
}

func TestDeleteRemovesAndStaysQuietWhenRepeated(t *testing.T) {
	svc, _ := newTestService(schema.KindFaculty)
	ctx := context.Background()

	created, err := svc.Create(ctx, facultyInput("Dr. Karim", 1))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	listed, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)

	// Deleting an already-deleted identifier must not fail the coordinator.
	assert.NoError(t, svc.Delete(ctx, created.ID))
}

func TestFacultyListsByDisplayOrder(t *testing.T) {
	svc, _ := newTestService(schema.KindFaculty)
	ctx := context.Background()

	for _, order := range []int{3, 1, 2} {
		_, err := svc.Create(ctx, facultyInput("Member", order))
		require.NoError(t, err)
	}

	listed, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	orders := []int{
		listed[0].Fields["display_order"].(int),
		listed[1].Fields["display_order"].(int),
		listed[2].Fields["display_order"].(int),
	}
	assert.Equal(t, []int{1, 2, 3}, orders)
}

func TestNoticesListNewestFirst(t *testing.T) {
	svc, _ := newTestService(schema.KindNotice)
	ctx := context.Background()

	for _, date := range []string{"2025-01-01", "2025-03-01", "2025-02-01"} {
		_, err := svc.Create(ctx, noticeInput("Notice "+date, date))
		require.NoError(t, err)
	}

	listed, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "2025-03-01", listed[0].Fields["date"])
	assert.Equal(t, "2025-02-01", listed[1].Fields["date"])
	assert.Equal(t, "2025-01-01", listed[2].Fields["date"])
}

func TestMissingIdentityRefusedBeforeStore(t *testing.T) {
	store := newFakeStore(schema.KindFaculty)
	svc := NewContentService(schema.KindFaculty, store, &fakeGuard{}, metrics.New(), zerolog.Nop())
	ctx := context.Background()

	_, err := svc.Create(ctx, facultyInput("Dr. Karim", 1))
	assert.ErrorIs(t, err, apperrors.ErrAuthenticationRequired)
	assert.Empty(t, store.writes())
}

func TestNonAdminNeverReachesStoreWrites(t *testing.T) {
	store := newFakeStore(schema.KindFaculty)
	guard := &fakeGuard{identity: &models.Identity{UserID: 7, Email: "viewer@example.edu"}, admin: false}
	svc := NewContentService(schema.KindFaculty, store, guard, metrics.New(), zerolog.Nop())
	ctx := context.Background()

	_, err := svc.Create(ctx, facultyInput("Dr. Karim", 1))
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	err = svc.Update(ctx, uuid.New(), facultyInput("Dr. Karim", 1))
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	err = svc.Delete(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	assert.Empty(t, store.writes(), "no write may reach the store without the admin capability")
}

func TestValidationFailureNeverReachesStore(t *testing.T) {
	svc, store := newTestService(schema.KindFaculty)
	ctx := context.Background()

	input := facultyInput("Dr. Karim", 1)
	input["email"] = "not-an-email"

	_, err := svc.Create(ctx, input)
	var verr *schema.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)
	assert.Empty(t, store.writes())
}

func TestFailedMutationLeavesCacheUntouched(t *testing.T) {
	svc, store := newTestService(schema.KindFaculty)
	ctx := context.Background()

	_, err := svc.Create(ctx, facultyInput("Dr. Karim", 1))
	require.NoError(t, err)

	before, err := svc.List(ctx)
	require.NoError(t, err)

	store.mu.Lock()
	store.failNext = apperrors.NewStoreError("insert", assert.AnError)
	store.mu.Unlock()

	_, err = svc.Create(ctx, facultyInput("Dr. Rahman", 2))
	require.Error(t, err)
	assert.True(t, apperrors.IsStoreError(err))

	after, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, StateFailed, svc.State())
}

func TestSuccessInvalidatesCache(t *testing.T) {
	svc, store := newTestService(schema.KindFaculty)
	ctx := context.Background()

	_, err := svc.List(ctx)
	require.NoError(t, err)
	_, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, store.listCalls(), "second read is served from cache")

	_, err = svc.Create(ctx, facultyInput("Dr. Karim", 1))
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, svc.State())

	_, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, store.listCalls(), "success forces a re-fetch")
}

func TestEditTargetClearedOnSuccess(t *testing.T) {
	svc, _ := newTestService(schema.KindFaculty)
	ctx := context.Background()

	created, err := svc.Create(ctx, facultyInput("Dr. Karim", 1))
	require.NoError(t, err)

	svc.BeginEdit(created.ID)
	target, ok := svc.EditTarget()
	require.True(t, ok)
	assert.Equal(t, created.ID, target)

	// Picking a different record silently replaces the previous target.
	other := uuid.New()
	svc.BeginEdit(other)
	target, ok = svc.EditTarget()
	require.True(t, ok)
	assert.Equal(t, other, target)

	require.NoError(t, svc.Update(ctx, created.ID, facultyInput("Dr. Karim", 2)))
	_, ok = svc.EditTarget()
	assert.False(t, ok)
}

func TestStateMachineStartsIdle(t *testing.T) {
	svc, _ := newTestService(schema.KindNotice)
	assert.Equal(t, StateIdle, svc.State())
}
