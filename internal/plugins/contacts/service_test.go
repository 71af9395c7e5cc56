package contacts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyxmakerx/rolodex/internal/apperror"
)

// --- Mocks ---

type mockContactRepo struct {
	createFn     func(ctx context.Context, c *Contact) error
	findByIDFn   func(ctx context.Context, id string) (*Contact, error)
	listFn       func(ctx context.Context) ([]Contact, error)
	searchFn     func(ctx context.Context, query string) ([]Contact, error)
	updateFn     func(ctx context.Context, c *Contact) error
	deleteFn     func(ctx context.Context, id string) error
	missingIDsFn func(ctx context.Context, ids []string) ([]string, error)
}

func (m *mockContactRepo) Create(ctx context.Context, c *Contact) error {
	if m.createFn != nil {
		return m.createFn(ctx, c)
	}
	return nil
}

func (m *mockContactRepo) FindByID(ctx context.Context, id string) (*Contact, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, apperror.NewNotFound("contact not found")
}

func (m *mockContactRepo) List(ctx context.Context) ([]Contact, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []Contact{}, nil
}

func (m *mockContactRepo) Search(ctx context.Context, query string) ([]Contact, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query)
	}
	return []Contact{}, nil
}

func (m *mockContactRepo) Update(ctx context.Context, c *Contact) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, c)
	}
	return nil
}

func (m *mockContactRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockContactRepo) MissingIDs(ctx context.Context, ids []string) ([]string, error) {
	if m.missingIDsFn != nil {
		return m.missingIDsFn(ctx, ids)
	}
	return nil, nil
}

// mockTagChecker accepts every id in known.
type mockTagChecker struct {
	known map[string]bool
	calls int
}

func (m *mockTagChecker) EnsureExist(_ context.Context, ids []string) error {
	m.calls++
	for _, id := range ids {
		if !m.known[id] {
			return apperror.NewValidation("tagIds: unknown tag " + id)
		}
	}
	return nil
}

// --- Helpers ---

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestService(repo *mockContactRepo, tagIDs ...string) (*contactService, *mockTagChecker) {
	checker := &mockTagChecker{known: map[string]bool{}}
	for _, id := range tagIDs {
		checker.known[id] = true
	}
	return &contactService{
		repo:  repo,
		tags:  checker,
		now:   func() time.Time { return fixedNow },
		newID: func() string { return "contact-1" },
	}, checker
}

func assertAppError(t *testing.T, err error, wantType string) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, wantType, appErr.Type)
}

func strPtr(s string) *string { return &s }

// --- Create ---

func TestCreate_CanonicalRecord(t *testing.T) {
	var stored Contact
	svc, _ := newTestService(&mockContactRepo{
		createFn: func(_ context.Context, c *Contact) error {
			stored = *c
			return nil
		},
	}, "t1")

	got, err := svc.Create(context.Background(), Draft{
		Name:   " Ana ",
		Email:  "ana@example.com",
		TagIDs: []string{"t1", "t1"},
		Notes:  "<b>met</b> at expo",
	})
	require.NoError(t, err)

	assert.Equal(t, "contact-1", got.ID)
	assert.Equal(t, "Ana", got.Name)
	assert.Equal(t, CategoryOther, got.Category)
	assert.Equal(t, []string{"t1"}, got.TagIDs)
	assert.Equal(t, "met at expo", got.Notes)
	assert.Equal(t, fixedNow, got.CreatedAt)
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
	assert.Equal(t, got, stored)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name  string
		draft Draft
	}{
		{"missing name", Draft{Name: "  "}},
		{"bad email", Draft{Name: "Ana", Email: "not-an-email"}},
		{"bad category", Draft{Name: "Ana", Category: "boss"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(&mockContactRepo{
				createFn: func(context.Context, *Contact) error {
					t.Fatal("repository must not be called")
					return nil
				},
			})
			_, err := svc.Create(context.Background(), tt.draft)
			assertAppError(t, err, apperror.TypeValidation)
		})
	}
}

func TestCreate_UnknownTag(t *testing.T) {
	svc, _ := newTestService(&mockContactRepo{
		createFn: func(context.Context, *Contact) error {
			t.Fatal("repository must not be called")
			return nil
		},
	}, "t1")

	_, err := svc.Create(context.Background(), Draft{Name: "Ana", TagIDs: []string{"t1", "ghost"}})
	assertAppError(t, err, apperror.TypeValidation)
	assert.Contains(t, err.Error(), "ghost")
}

// --- Update ---

func existingContact() *Contact {
	return &Contact{
		ID: "contact-1", Name: "Ana", Email: "ana@example.com", Category: CategoryWork,
		TagIDs: []string{"t1"}, CreatedAt: fixedNow, UpdatedAt: fixedNow,
	}
}

func TestUpdate_MergesAndAdvances(t *testing.T) {
	var stored Contact
	svc, checker := newTestService(&mockContactRepo{
		findByIDFn: func(context.Context, string) (*Contact, error) { return existingContact(), nil },
		updateFn: func(_ context.Context, c *Contact) error {
			stored = *c
			return nil
		},
	}, "t1")

	got, err := svc.Update(context.Background(), "contact-1", Patch{Phone: strPtr("555-0100")})
	require.NoError(t, err)

	assert.Equal(t, "Ana", got.Name)
	assert.Equal(t, "555-0100", got.Phone)
	assert.Equal(t, []string{"t1"}, got.TagIDs)
	assert.True(t, got.UpdatedAt.After(fixedNow))
	assert.Equal(t, fixedNow, got.CreatedAt)
	assert.Equal(t, got, stored)
	assert.Zero(t, checker.calls, "tags unchanged, no existence check")
}

func TestUpdate_ReplacesTags(t *testing.T) {
	svc, _ := newTestService(&mockContactRepo{
		findByIDFn: func(context.Context, string) (*Contact, error) { return existingContact(), nil },
	}, "t1", "t2")

	tagIDs := []string{"t2"}
	got, err := svc.Update(context.Background(), "contact-1", Patch{TagIDs: &tagIDs})
	require.NoError(t, err)
	assert.Equal(t, []string{"t2"}, got.TagIDs)

	empty := []string{}
	got, err = svc.Update(context.Background(), "contact-1", Patch{TagIDs: &empty})
	require.NoError(t, err)
	assert.Empty(t, got.TagIDs)
}

func TestUpdate_InvalidEmail(t *testing.T) {
	svc, _ := newTestService(&mockContactRepo{
		findByIDFn: func(context.Context, string) (*Contact, error) { return existingContact(), nil },
		updateFn: func(context.Context, *Contact) error {
			t.Fatal("repository must not be called")
			return nil
		},
	})
	_, err := svc.Update(context.Background(), "contact-1", Patch{Email: strPtr("nope")})
	assertAppError(t, err, apperror.TypeValidation)
}

func TestUpdate_ClearEmailAllowed(t *testing.T) {
	svc, _ := newTestService(&mockContactRepo{
		findByIDFn: func(context.Context, string) (*Contact, error) { return existingContact(), nil },
	})
	got, err := svc.Update(context.Background(), "contact-1", Patch{Email: strPtr("")})
	require.NoError(t, err)
	assert.Empty(t, got.Email)
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := newTestService(&mockContactRepo{})
	_, err := svc.Update(context.Background(), "missing", Patch{Name: strPtr("x")})
	assertAppError(t, err, apperror.TypeNotFound)
}

// --- Search / EnsureExist ---

func TestSearch_BlankQueryLists(t *testing.T) {
	listed := false
	svc, _ := newTestService(&mockContactRepo{
		listFn: func(context.Context) ([]Contact, error) {
			listed = true
			return []Contact{}, nil
		},
	})
	_, err := svc.Search(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, listed)
}

func TestEnsureExist(t *testing.T) {
	svc, _ := newTestService(&mockContactRepo{
		missingIDsFn: func(context.Context, []string) ([]string, error) { return []string{"c9"}, nil },
	})
	err := svc.EnsureExist(context.Background(), []string{"c1", "c9"})
	assertAppError(t, err, apperror.TypeValidation)
	assert.Contains(t, err.Error(), "c9")
}
