package tags

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/keyxmakerx/rolodex/internal/apperror"
	"github.com/keyxmakerx/rolodex/internal/database"
)

// TagRepository defines the data access contract for tags.
// All SQL lives here.
type TagRepository interface {
	Create(ctx context.Context, tag *Tag) error
	FindByID(ctx context.Context, id string) (*Tag, error)

	// List returns every tag, newest first.
	List(ctx context.Context) ([]Tag, error)

	// Search returns tags whose name contains query, case-insensitively.
	Search(ctx context.Context, query string) ([]Tag, error)

	Update(ctx context.Context, tag *Tag) error

	// Delete removes a tag. Join rows on contacts and campaigns are
	// cascade-deleted by the foreign keys.
	Delete(ctx context.Context, id string) error

	// MissingIDs returns the subset of ids that do not exist, in input order.
	MissingIDs(ctx context.Context, ids []string) ([]string, error)
}

// tagRepository implements TagRepository using MariaDB with hand-written SQL.
type tagRepository struct {
	db *sql.DB
}

// NewTagRepository creates a new TagRepository backed by the given database connection.
func NewTagRepository(db *sql.DB) TagRepository {
	return &tagRepository{db: db}
}

const tagColumns = `id, name, color, created_at, updated_at`

func (r *tagRepository) Create(ctx context.Context, tag *Tag) error {
	query := `INSERT INTO tags (id, name, color, created_at, updated_at)
	           VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		tag.ID, tag.Name, tag.Color, tag.CreatedAt, tag.UpdatedAt,
	)
	if err != nil {
		if database.IsDuplicateEntry(err) {
			return apperror.NewConflict("a tag with this name already exists")
		}
		return fmt.Errorf("inserting tag: %w", err)
	}
	return nil
}

func (r *tagRepository) FindByID(ctx context.Context, id string) (*Tag, error) {
	query := `SELECT ` + tagColumns + ` FROM tags WHERE id = ?`

	var t Tag
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Color, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("tag not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying tag by id: %w", err)
	}
	return &t, nil
}

func (r *tagRepository) List(ctx context.Context) ([]Tag, error) {
	query := `SELECT ` + tagColumns + ` FROM tags
	           ORDER BY created_at DESC, id DESC`
	return r.query(ctx, "listing tags", query)
}

func (r *tagRepository) Search(ctx context.Context, q string) ([]Tag, error) {
	query := `SELECT ` + tagColumns + ` FROM tags
	           WHERE LOWER(name) LIKE ?
	           ORDER BY created_at DESC, id DESC`
	return r.query(ctx, "searching tags", query, database.ContainsPattern(q))
}

func (r *tagRepository) query(ctx context.Context, what, query string, args ...any) ([]Tag, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	defer rows.Close()

	tags := []Tag{}
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning tag row: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tag rows: %w", err)
	}
	return tags, nil
}

func (r *tagRepository) Update(ctx context.Context, tag *Tag) error {
	query := `UPDATE tags SET name = ?, color = ?, updated_at = ?
	           WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, tag.Name, tag.Color, tag.UpdatedAt, tag.ID)
	if err != nil {
		if database.IsDuplicateEntry(err) {
			return apperror.NewConflict("a tag with this name already exists")
		}
		return fmt.Errorf("updating tag: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFound("tag not found")
	}
	return nil
}

func (r *tagRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting tag: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFound("tag not found")
	}
	return nil
}

func (r *tagRepository) MissingIDs(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT id FROM tags WHERE id IN (` + database.Placeholders(len(ids)) + `)`
	rows, err := r.db.QueryContext(ctx, query, database.StringArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("checking tag ids: %w", err)
	}
	defer rows.Close()

	found := make(map[string]struct{}, len(ids))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning tag id: %w", err)
		}
		found[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tag ids: %w", err)
	}

	var missing []string
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
