// Package dashboard is the consumer side of the synchronization layer. It
// owns one controller per entity kind, loads them together at startup, and
// derives the views the dashboard pages render: contacts with resolved tag
// names, per-status campaign counts and the current selections.
package dashboard

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/keyxmakerx/rolodex/internal/apperror"
	"github.com/keyxmakerx/rolodex/internal/entitysync"
	"github.com/keyxmakerx/rolodex/internal/plugins/auth"
	"github.com/keyxmakerx/rolodex/internal/plugins/campaigns"
	"github.com/keyxmakerx/rolodex/internal/plugins/contacts"
	"github.com/keyxmakerx/rolodex/internal/widgets/tags"
)

// Per-kind controller types.
type (
	ContactController  = entitysync.Controller[contacts.Contact, contacts.Draft, contacts.Patch]
	CampaignController = entitysync.Controller[campaigns.Campaign, campaigns.Draft, campaigns.Patch]
	TagController      = entitysync.Controller[tags.Tag, tags.Draft, tags.Patch]
)

// Stores holds the remote store for each kind.
type Stores struct {
	Contacts  entitysync.Store[contacts.Contact, contacts.Draft, contacts.Patch]
	Campaigns entitysync.Store[campaigns.Campaign, campaigns.Draft, campaigns.Patch]
	Tags      entitysync.Store[tags.Tag, tags.Draft, tags.Patch]
}

// SessionRefresher renews the session after the store reports it expired.
type SessionRefresher interface {
	Refresh(ctx context.Context) (auth.Token, error)
}

// Options configures a Dashboard.
type Options struct {
	Logger *slog.Logger

	// Refresher is called when any controller sees an unauthorized error.
	// Nil disables the hook.
	Refresher SessionRefresher

	// DiscardStaleReads is passed to every controller.
	DiscardStaleReads bool

	// BulkConcurrency caps parallel store calls in bulk operations.
	// Defaults to 4.
	BulkConcurrency int
}

// Dashboard owns the controllers for contacts, campaigns and tags. Create
// one per process and share it.
type Dashboard struct {
	Contacts  *ContactController
	Campaigns *CampaignController
	Tags      *TagController

	tagIndex        *tagIndex
	logger          *slog.Logger
	refresher       SessionRefresher
	bulkConcurrency int
}

// New builds the three controllers over stores.
func New(stores Stores, opts Options) *Dashboard {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dashboard{
		tagIndex:        &tagIndex{store: stores.Tags},
		logger:          logger,
		refresher:       opts.Refresher,
		bulkConcurrency: opts.BulkConcurrency,
	}
	if d.bulkConcurrency <= 0 {
		d.bulkConcurrency = 4
	}

	ctrlOpts := entitysync.Options{
		Logger:            logger,
		DiscardStaleReads: opts.DiscardStaleReads,
	}
	if d.refresher != nil {
		ctrlOpts.OnUnauthorized = d.refreshSession
	}

	d.Contacts = entitysync.New[contacts.Contact, contacts.Draft, contacts.Patch]("contacts", stores.Contacts, ctrlOpts)
	d.Campaigns = entitysync.New[campaigns.Campaign, campaigns.Draft, campaigns.Patch]("campaigns", stores.Campaigns, ctrlOpts)
	d.Tags = entitysync.New[tags.Tag, tags.Draft, tags.Patch]("tags", d.tagIndex, ctrlOpts)
	return d
}

// Bootstrap loads every kind concurrently and returns the first failure.
// Kinds that loaded successfully keep their data either way.
func (d *Dashboard) Bootstrap(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return d.Tags.Load(ctx) })
	g.Go(func() error { return d.Contacts.Load(ctx) })
	g.Go(func() error { return d.Campaigns.Load(ctx) })
	return g.Wait()
}

// refreshSession is the controllers' unauthorized hook. The failed operation
// is not replayed; the next one uses the refreshed session.
func (d *Dashboard) refreshSession(ctx context.Context) {
	if _, err := d.refresher.Refresh(ctx); err != nil {
		d.logger.Warn("session refresh failed", slog.Any("error", err))
		return
	}
	d.logger.Info("session refreshed")
}

// Reconcile reloads a kind after an operation failed with not_found, so an
// entity deleted elsewhere disappears from the cache. Other errors are
// ignored. It returns the original error unchanged.
func Reconcile(ctx context.Context, err error, load func(context.Context) error) error {
	if err == nil || !apperror.IsType(err, apperror.TypeNotFound) {
		return err
	}
	_ = load(ctx)
	return err
}
