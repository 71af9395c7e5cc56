package remote

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/keyxmakerx/rolodex/internal/entitysync"
	"github.com/keyxmakerx/rolodex/internal/plugins/campaigns"
	"github.com/keyxmakerx/rolodex/internal/plugins/contacts"
	"github.com/keyxmakerx/rolodex/internal/widgets/tags"
)

// Resource is one store API collection (e.g. /contacts) exposed as an
// entitysync.Store.
type Resource[T entitysync.Entity, D, P any] struct {
	client *Client
	path   string
}

// NewResource binds a collection path such as "/contacts" to c.
func NewResource[T entitysync.Entity, D, P any](c *Client, path string) *Resource[T, D, P] {
	return &Resource[T, D, P]{client: c, path: path}
}

// Contacts returns the contacts collection.
func (c *Client) Contacts() *Resource[contacts.Contact, contacts.Draft, contacts.Patch] {
	return NewResource[contacts.Contact, contacts.Draft, contacts.Patch](c, "/contacts")
}

// Campaigns returns the campaigns collection.
func (c *Client) Campaigns() *Resource[campaigns.Campaign, campaigns.Draft, campaigns.Patch] {
	return NewResource[campaigns.Campaign, campaigns.Draft, campaigns.Patch](c, "/campaigns")
}

// Tags returns the tags collection.
func (c *Client) Tags() *Resource[tags.Tag, tags.Draft, tags.Patch] {
	return NewResource[tags.Tag, tags.Draft, tags.Patch](c, "/tags")
}

// List fetches the whole collection, newest first.
func (r *Resource[T, D, P]) List(ctx context.Context) ([]T, error) {
	return r.fetch(ctx, nil)
}

// Search fetches the records matching query. A blank query lists everything.
func (r *Resource[T, D, P]) Search(ctx context.Context, query string) ([]T, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return r.List(ctx)
	}
	return r.fetch(ctx, url.Values{"q": {query}})
}

func (r *Resource[T, D, P]) fetch(ctx context.Context, query url.Values) ([]T, error) {
	var out []T
	if err := r.client.do(ctx, http.MethodGet, r.path, query, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// Get fetches one record.
func (r *Resource[T, D, P]) Get(ctx context.Context, id string) (T, error) {
	var out T
	if err := r.client.do(ctx, http.MethodGet, r.item(id), nil, nil, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Create posts draft and returns the stored record.
func (r *Resource[T, D, P]) Create(ctx context.Context, draft D) (T, error) {
	var out T
	if err := r.client.do(ctx, http.MethodPost, r.path, nil, draft, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Update patches id and returns the stored record.
func (r *Resource[T, D, P]) Update(ctx context.Context, id string, patch P) (T, error) {
	var out T
	if err := r.client.do(ctx, http.MethodPatch, r.item(id), nil, patch, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Delete removes id.
func (r *Resource[T, D, P]) Delete(ctx context.Context, id string) error {
	return r.client.do(ctx, http.MethodDelete, r.item(id), nil, nil, nil)
}

func (r *Resource[T, D, P]) item(id string) string {
	return r.path + "/" + url.PathEscape(id)
}
