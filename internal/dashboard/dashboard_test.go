package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyxmakerx/rolodex/internal/apperror"
	"github.com/keyxmakerx/rolodex/internal/entitysync"
	"github.com/keyxmakerx/rolodex/internal/plugins/auth"
	"github.com/keyxmakerx/rolodex/internal/plugins/campaigns"
	"github.com/keyxmakerx/rolodex/internal/plugins/contacts"
	"github.com/keyxmakerx/rolodex/internal/widgets/tags"
)

// --- In-memory store ---

// memStore keeps records newest first, like the store API.
type memStore[T entitysync.Entity, D, P any] struct {
	mu      sync.Mutex
	items   []T
	seq     int
	build   func(id string, d D) T
	apply   func(T, P) T
	match   func(T, string) bool
	listErr error
	opErr   error
	updates int
}

func (s *memStore[T, D, P]) seed(items ...T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, items...)
}

func (s *memStore[T, D, P]) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if it.EntityID() == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

func (s *memStore[T, D, P]) find(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.EntityID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func (s *memStore[T, D, P]) List(context.Context) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *memStore[T, D, P]) Search(ctx context.Context, query string) ([]T, error) {
	all, err := s.List(ctx)
	if err != nil || s.match == nil || query == "" {
		return all, err
	}
	out := make([]T, 0, len(all))
	for _, it := range all {
		if s.match(it, query) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *memStore[T, D, P]) Create(_ context.Context, d D) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opErr != nil {
		var zero T
		return zero, s.opErr
	}
	s.seq++
	rec := s.build(fmt.Sprintf("new-%d", s.seq), d)
	s.items = append([]T{rec}, s.items...)
	return rec, nil
}

func (s *memStore[T, D, P]) Update(_ context.Context, id string, p P) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	if s.opErr != nil {
		return zero, s.opErr
	}
	for i, it := range s.items {
		if it.EntityID() == id {
			s.updates++
			s.items[i] = s.apply(it, p)
			return s.items[i], nil
		}
	}
	return zero, apperror.NewNotFound("record not found")
}

func (s *memStore[T, D, P]) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opErr != nil {
		return s.opErr
	}
	for i, it := range s.items {
		if it.EntityID() == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return apperror.NewNotFound("record not found")
}

func (s *memStore[T, D, P]) updateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updates
}

type fixture struct {
	contacts  *memStore[contacts.Contact, contacts.Draft, contacts.Patch]
	campaigns *memStore[campaigns.Campaign, campaigns.Draft, campaigns.Patch]
	tags      *memStore[tags.Tag, tags.Draft, tags.Patch]
}

func newFixture() *fixture {
	f := &fixture{
		contacts: &memStore[contacts.Contact, contacts.Draft, contacts.Patch]{
			build: func(id string, d contacts.Draft) contacts.Contact {
				cat := d.Category
				if cat == "" {
					cat = contacts.CategoryOther
				}
				return contacts.Contact{ID: id, Name: d.Name, Category: cat, TagIDs: tags.NormalizeIDs(d.TagIDs)}
			},
			apply: func(c contacts.Contact, p contacts.Patch) contacts.Contact {
				if p.Name != nil {
					c.Name = *p.Name
				}
				if p.TagIDs != nil {
					c.TagIDs = tags.NormalizeIDs(*p.TagIDs)
				}
				return c
			},
		},
		campaigns: &memStore[campaigns.Campaign, campaigns.Draft, campaigns.Patch]{
			build: func(id string, d campaigns.Draft) campaigns.Campaign {
				st := d.Status
				if st == "" {
					st = campaigns.StatusDraft
				}
				return campaigns.Campaign{ID: id, Title: d.Title, Status: st, TagIDs: tags.NormalizeIDs(d.TagIDs)}
			},
			apply: func(c campaigns.Campaign, p campaigns.Patch) campaigns.Campaign {
				if p.Status != nil {
					c.Status = *p.Status
				}
				return c
			},
		},
		tags: &memStore[tags.Tag, tags.Draft, tags.Patch]{
			build: func(id string, d tags.Draft) tags.Tag {
				return tags.Tag{ID: id, Name: d.Name, Color: tags.DefaultColor}
			},
			apply: func(t tags.Tag, p tags.Patch) tags.Tag {
				if p.Name != nil {
					t.Name = *p.Name
				}
				return t
			},
			match: func(t tags.Tag, q string) bool {
				return strings.Contains(strings.ToLower(t.Name), strings.ToLower(q))
			},
		},
	}

	f.tags.seed(
		tags.Tag{ID: "t-vip", Name: "vip"},
		tags.Tag{ID: "t-lead", Name: "lead"},
	)
	f.contacts.seed(
		contacts.Contact{ID: "c1", Name: "Ana", Category: contacts.CategoryWork, TagIDs: []string{"t-vip", "t-gone"}},
		contacts.Contact{ID: "c2", Name: "Bo", Category: contacts.CategoryWork, TagIDs: []string{}},
		contacts.Contact{ID: "c3", Name: "Cy", Category: contacts.CategoryFamily, TagIDs: []string{"t-lead"}},
	)
	f.campaigns.seed(
		campaigns.Campaign{ID: "k1", Title: "Spring", Status: campaigns.StatusActive, TagIDs: []string{"t-lead"}},
		campaigns.Campaign{ID: "k2", Title: "Summer", Status: campaigns.StatusDraft},
		campaigns.Campaign{ID: "k3", Title: "Fall", Status: campaigns.StatusActive},
	)
	return f
}

func (f *fixture) stores() Stores {
	return Stores{Contacts: f.contacts, Campaigns: f.campaigns, Tags: f.tags}
}

type countingRefresher struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (r *countingRefresher) Refresh(context.Context) (auth.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return auth.Token{Token: "fresh"}, r.err
}

func newBootstrapped(t *testing.T, f *fixture) *Dashboard {
	t.Helper()
	d := New(f.stores(), Options{})
	require.NoError(t, d.Bootstrap(context.Background()))
	return d
}

// --- Tests ---

func TestBootstrap_LoadsEveryKind(t *testing.T) {
	d := newBootstrapped(t, newFixture())

	assert.Equal(t, 3, d.Contacts.State().Count())
	assert.Equal(t, 3, d.Campaigns.State().Count())
	assert.Equal(t, 2, d.Tags.State().Count())
	assert.False(t, d.Summary().Loading)
}

func TestBootstrap_ReportsFailureButKeepsOthers(t *testing.T) {
	f := newFixture()
	f.campaigns.listErr = apperror.NewRemoteUnavailable(errors.New("dial tcp"))
	d := New(f.stores(), Options{})

	err := d.Bootstrap(context.Background())
	assert.True(t, apperror.IsType(err, apperror.TypeRemoteUnavailable))
	assert.Equal(t, 3, d.Contacts.State().Count())
	assert.Equal(t, 2, d.Tags.State().Count())
	assert.Equal(t, apperror.TypeRemoteUnavailable, d.Campaigns.Err().Type)
}

func TestContactsView_ResolvesTagNames(t *testing.T) {
	d := newBootstrapped(t, newFixture())

	view := d.ContactsView()
	require.Len(t, view.Entities, 3)
	assert.Equal(t, []string{"vip", tags.UnknownTagName}, view.Entities[0].TagNames)
	assert.Equal(t, []string{}, view.Entities[1].TagNames)
	assert.Equal(t, []string{"lead"}, view.Entities[2].TagNames)
	assert.Equal(t, 3, view.Count)

	cv := d.CampaignsView()
	assert.Equal(t, []string{"lead"}, cv.Entities[0].TagNames)
}

func TestContactsView_DeletedTagBecomesUnknown(t *testing.T) {
	d := newBootstrapped(t, newFixture())

	require.NoError(t, d.Tags.Delete(context.Background(), "t-lead"))

	view := d.ContactsView()
	assert.Equal(t, []string{tags.UnknownTagName}, view.Entities[2].TagNames)
}

func TestContactsView_TagSearchKeepsNames(t *testing.T) {
	d := newBootstrapped(t, newFixture())

	require.NoError(t, d.Tags.Search(context.Background(), "vip"))
	require.Equal(t, 1, d.Tags.State().Count())

	view := d.ContactsView()
	assert.Equal(t, []string{"vip", tags.UnknownTagName}, view.Entities[0].TagNames)
	assert.Equal(t, []string{"lead"}, view.Entities[2].TagNames)
	assert.Equal(t, []string{"lead"}, d.CampaignsView().Entities[0].TagNames)
}

func TestContactsView_CreatedAndRenamedTags(t *testing.T) {
	d := newBootstrapped(t, newFixture())
	ctx := context.Background()

	require.NoError(t, d.Tags.Search(ctx, "vip"))
	created, err := d.Tags.Create(ctx, tags.Draft{Name: "press"})
	require.NoError(t, err)
	renamed := "lead-2026"
	_, err = d.Tags.Update(ctx, "t-lead", tags.Patch{Name: &renamed})
	require.NoError(t, err)

	lookup := d.TagLookup()
	assert.Equal(t, "press", lookup.Name(created.ID))
	assert.Equal(t, "lead-2026", lookup.Name("t-lead"))
	assert.Equal(t, "vip", lookup.Name("t-vip"))
}

func TestSummary_Counts(t *testing.T) {
	d := newBootstrapped(t, newFixture())
	d.Contacts.Select([]string{"c1", "c3"})
	d.Campaigns.Select([]string{"k2"})

	s := d.Summary()
	assert.Equal(t, 3, s.Contacts)
	assert.Equal(t, 3, s.Campaigns)
	assert.Equal(t, 2, s.Tags)
	assert.Equal(t, map[campaigns.Status]int{
		campaigns.StatusDraft:     1,
		campaigns.StatusScheduled: 0,
		campaigns.StatusActive:    2,
		campaigns.StatusCompleted: 0,
		campaigns.StatusCanceled:  0,
	}, s.CampaignsByStatus)
	assert.Equal(t, 2, s.ContactsByCategory[contacts.CategoryWork])
	assert.Equal(t, 1, s.ContactsByCategory[contacts.CategoryFamily])
	assert.Equal(t, 0, s.ContactsByCategory[contacts.CategoryPersonal])
	assert.Equal(t, 2, s.SelectedContacts)
	assert.Equal(t, 1, s.SelectedCampaigns)
	assert.Equal(t, 0, s.SelectedTags)
}

func TestAssignTagToSelected(t *testing.T) {
	f := newFixture()
	d := newBootstrapped(t, f)
	d.Contacts.Select([]string{"c1", "c2", "c3"})

	n, err := d.AssignTagToSelected(context.Background(), "t-vip")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "c1 already carries the tag")
	assert.Equal(t, 2, f.contacts.updateCount())

	for _, id := range []string{"c1", "c2", "c3"} {
		cached, ok := d.Contacts.Get(id)
		require.True(t, ok)
		assert.True(t, cached.HasTag("t-vip"), id)
		stored, _ := f.contacts.find(id)
		assert.Equal(t, stored, cached, id)
	}
	c3, _ := d.Contacts.Get("c3")
	assert.Equal(t, []string{"t-lead", "t-vip"}, c3.TagIDs)
}

func TestAssignTagToSelected_UnknownTag(t *testing.T) {
	f := newFixture()
	d := newBootstrapped(t, f)
	d.Contacts.Select([]string{"c2"})

	_, err := d.AssignTagToSelected(context.Background(), "t-nope")
	assert.True(t, apperror.IsType(err, apperror.TypeValidation))
	assert.Zero(t, f.contacts.updateCount())
}

func TestAssignTagToSelected_AfterTagSearch(t *testing.T) {
	f := newFixture()
	d := newBootstrapped(t, f)
	require.NoError(t, d.Tags.Search(context.Background(), "vip"))
	d.Contacts.Select([]string{"c2"})

	n, err := d.AssignTagToSelected(context.Background(), "t-lead")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	c2, _ := d.Contacts.Get("c2")
	assert.Equal(t, []string{"t-lead"}, c2.TagIDs)
}

// cancelAwareContacts fails one update outright and answers another with
// not_found only after the batch context is canceled. Its List honors ctx.
type cancelAwareContacts struct {
	*memStore[contacts.Contact, contacts.Draft, contacts.Patch]
	failID, lateID string
}

func (s *cancelAwareContacts) List(ctx context.Context) ([]contacts.Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperror.Classify(err)
	}
	return s.memStore.List(ctx)
}

func (s *cancelAwareContacts) Update(ctx context.Context, id string, p contacts.Patch) (contacts.Contact, error) {
	switch id {
	case s.failID:
		return contacts.Contact{}, apperror.NewValidation("name is required")
	case s.lateID:
		select {
		case <-ctx.Done():
		case <-time.After(5 * time.Second):
		}
		return contacts.Contact{}, apperror.NewNotFound("contact not found")
	}
	return s.memStore.Update(ctx, id, p)
}

func TestAssignTag_ReconcileSurvivesCanceledBatch(t *testing.T) {
	f := newFixture()
	store := &cancelAwareContacts{memStore: f.contacts, failID: "c2", lateID: "c3"}
	stores := f.stores()
	stores.Contacts = store
	d := New(stores, Options{BulkConcurrency: 2})
	require.NoError(t, d.Bootstrap(context.Background()))
	d.Contacts.Select([]string{"c2", "c3"})

	// c3 was deleted elsewhere; its update only answers after c2 failed.
	f.contacts.remove("c3")

	_, err := d.AssignTagToSelected(context.Background(), "t-vip")
	require.Error(t, err)

	_, cached := d.Contacts.Get("c3")
	assert.False(t, cached, "reload ran despite the canceled batch")
	if got := d.Contacts.Err(); got != nil {
		assert.NotEqual(t, apperror.TypeRemoteUnavailable, got.Type)
	}
}

func TestRemoveTagFromSelected(t *testing.T) {
	f := newFixture()
	d := newBootstrapped(t, f)
	d.Contacts.Select([]string{"c1", "c2"})

	n, err := d.RemoveTagFromSelected(context.Background(), "t-vip")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	c1, _ := d.Contacts.Get("c1")
	assert.Equal(t, []string{"t-gone"}, c1.TagIDs)
}

func TestAssignTag_ReconcilesDeletedContact(t *testing.T) {
	f := newFixture()
	d := newBootstrapped(t, f)
	d.Contacts.Select([]string{"c2"})

	// Deleted by someone else after our load.
	f.contacts.remove("c2")

	_, err := d.AssignTagToSelected(context.Background(), "t-lead")
	assert.True(t, apperror.IsType(err, apperror.TypeNotFound))

	_, cached := d.Contacts.Get("c2")
	assert.False(t, cached, "reload dropped the missing contact")
	assert.Empty(t, d.Contacts.State().SelectedIDs)
}

func TestUnauthorized_RefreshesSession(t *testing.T) {
	f := newFixture()
	ref := &countingRefresher{}
	d := New(f.stores(), Options{Refresher: ref})
	f.tags.listErr = apperror.NewUnauthorized("session expired")

	err := d.Tags.Load(context.Background())
	assert.True(t, apperror.IsType(err, apperror.TypeUnauthorized))
	assert.Equal(t, 1, ref.calls)

	ref.err = apperror.NewUnauthorized("signed out")
	_ = d.Tags.Load(context.Background())
	assert.Equal(t, 2, ref.calls)
}

func TestReconcile_IgnoresOtherErrors(t *testing.T) {
	loads := 0
	load := func(context.Context) error { loads++; return nil }

	assert.NoError(t, Reconcile(context.Background(), nil, load))
	err := apperror.NewValidation("bad")
	assert.Same(t, err, Reconcile(context.Background(), err, load))
	assert.Zero(t, loads)

	nf := apperror.NewNotFound("gone")
	assert.Same(t, nf, Reconcile(context.Background(), nf, load))
	assert.Equal(t, 1, loads)
}
