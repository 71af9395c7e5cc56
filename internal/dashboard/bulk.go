package dashboard

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/keyxmakerx/rolodex/internal/apperror"
	"github.com/keyxmakerx/rolodex/internal/plugins/contacts"
)

// AssignTagToSelected adds tagID to every selected contact that lacks it.
// Updates run in parallel, bounded by Options.BulkConcurrency. Each update
// is applied to the cache as it completes; on failure the remaining updates
// are canceled and the first error is returned along with how many
// contacts were changed.
func (d *Dashboard) AssignTagToSelected(ctx context.Context, tagID string) (int, error) {
	if !d.TagLookup().Has(tagID) {
		return 0, apperror.NewValidation("tagIds: unknown tag " + tagID)
	}
	return d.retagSelected(ctx, func(c contacts.Contact) ([]string, bool) {
		if c.HasTag(tagID) {
			return nil, false
		}
		next := make([]string, 0, len(c.TagIDs)+1)
		next = append(next, c.TagIDs...)
		return append(next, tagID), true
	})
}

// RemoveTagFromSelected drops tagID from every selected contact carrying it.
func (d *Dashboard) RemoveTagFromSelected(ctx context.Context, tagID string) (int, error) {
	return d.retagSelected(ctx, func(c contacts.Contact) ([]string, bool) {
		if !c.HasTag(tagID) {
			return nil, false
		}
		next := make([]string, 0, len(c.TagIDs))
		for _, id := range c.TagIDs {
			if id != tagID {
				next = append(next, id)
			}
		}
		return next, true
	})
}

// retagSelected patches the tag list of each selected contact for which
// change reports a difference.
func (d *Dashboard) retagSelected(ctx context.Context, change func(contacts.Contact) ([]string, bool)) (int, error) {
	selected := d.Contacts.State().Selected()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.bulkConcurrency)

	var updated atomic.Int64
	for _, c := range selected {
		tagIDs, ok := change(c)
		if !ok {
			continue
		}
		g.Go(func() error {
			_, err := d.Contacts.Update(gctx, c.ID, contacts.Patch{TagIDs: &tagIDs})
			if err != nil {
				// gctx is canceled once any sibling fails; reload on ctx.
				return Reconcile(ctx, err, d.Contacts.Load)
			}
			updated.Add(1)
			return nil
		})
	}
	err := g.Wait()
	return int(updated.Load()), err
}
