// Package entitysync keeps an in-memory copy of one entity kind consistent
// with a remote store. A Controller owns the kind's Cache and Selection,
// runs create/update/delete/search round-trips against a Store, and exposes
// loading and error state to consumers as immutable State snapshots.
//
// Responses are applied in arrival order (last-applied-wins). The controller
// never retries, never times out a call and never applies part of a failed
// operation.
package entitysync

import "context"

// Entity is a record with a store-assigned, immutable id.
type Entity interface {
	EntityID() string
}

// Store is the remote contract for one entity kind. T is the canonical
// record, D the creation draft and P the update patch.
//
// Implementations should fail with *apperror.AppError values from the
// remote_unavailable, unauthorized, validation_error and not_found types;
// anything else is classified by the controller.
type Store[T Entity, D, P any] interface {
	// List returns every record in display order.
	List(ctx context.Context) ([]T, error)

	// Search returns records matching query. A blank query behaves as List.
	Search(ctx context.Context, query string) ([]T, error)

	// Create stores draft and returns the canonical record with its new id.
	Create(ctx context.Context, draft D) (T, error)

	// Update applies patch and returns the canonical updated record.
	Update(ctx context.Context, id string, patch P) (T, error)

	Delete(ctx context.Context, id string) error
}
