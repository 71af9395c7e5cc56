package dashboard

import (
	"context"
	"sync"

	"github.com/keyxmakerx/rolodex/internal/entitysync"
	"github.com/keyxmakerx/rolodex/internal/widgets/tags"
)

// tagIndex wraps the tag store and keeps every known tag by id. Full lists
// and confirmed writes update it; search results do not, so narrowing the
// tag list never hides a live tag from the contact and campaign views.
type tagIndex struct {
	store entitysync.Store[tags.Tag, tags.Draft, tags.Patch]

	mu   sync.RWMutex
	byID map[string]tags.Tag
}

func (x *tagIndex) List(ctx context.Context) ([]tags.Tag, error) {
	items, err := x.store.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]tags.Tag, len(items))
	for _, t := range items {
		byID[t.ID] = t
	}
	x.mu.Lock()
	x.byID = byID
	x.mu.Unlock()
	return items, nil
}

func (x *tagIndex) Search(ctx context.Context, query string) ([]tags.Tag, error) {
	return x.store.Search(ctx, query)
}

func (x *tagIndex) Create(ctx context.Context, draft tags.Draft) (tags.Tag, error) {
	t, err := x.store.Create(ctx, draft)
	if err != nil {
		return t, err
	}
	x.put(t)
	return t, nil
}

func (x *tagIndex) Update(ctx context.Context, id string, patch tags.Patch) (tags.Tag, error) {
	t, err := x.store.Update(ctx, id, patch)
	if err != nil {
		return t, err
	}
	x.put(t)
	return t, nil
}

func (x *tagIndex) Delete(ctx context.Context, id string) error {
	if err := x.store.Delete(ctx, id); err != nil {
		return err
	}
	x.mu.Lock()
	delete(x.byID, id)
	x.mu.Unlock()
	return nil
}

func (x *tagIndex) put(t tags.Tag) {
	x.mu.Lock()
	if x.byID == nil {
		x.byID = make(map[string]tags.Tag)
	}
	x.byID[t.ID] = t
	x.mu.Unlock()
}

// lookup returns a Lookup over every indexed tag.
func (x *tagIndex) lookup() tags.Lookup {
	x.mu.RLock()
	defer x.mu.RUnlock()
	all := make([]tags.Tag, 0, len(x.byID))
	for _, t := range x.byID {
		all = append(all, t)
	}
	return tags.NewLookup(all)
}
