package contacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/keyxmakerx/rolodex/internal/apperror"
	"github.com/keyxmakerx/rolodex/internal/database"
)

// ContactRepository defines the data access contract for contacts and their
// tag assignments.
type ContactRepository interface {
	// Create inserts the contact and its tag assignments in one transaction.
	Create(ctx context.Context, c *Contact) error

	FindByID(ctx context.Context, id string) (*Contact, error)

	// List returns every contact, newest first.
	List(ctx context.Context) ([]Contact, error)

	// Search matches name, email, phone, notes and assigned tag names,
	// case-insensitively.
	Search(ctx context.Context, query string) ([]Contact, error)

	// Update rewrites the row and replaces the tag assignments.
	Update(ctx context.Context, c *Contact) error

	Delete(ctx context.Context, id string) error

	// MissingIDs returns the subset of ids that do not exist, in input order.
	MissingIDs(ctx context.Context, ids []string) ([]string, error)
}

var contactTags = database.Link{Table: "contact_tags", OwnerCol: "contact_id", RefCol: "tag_id"}

const contactColumns = `c.id, c.name, c.email, c.phone, c.category, c.company, c.role, c.notes, c.created_at, c.updated_at`

// contactRepository implements ContactRepository using MariaDB with
// hand-written SQL.
type contactRepository struct {
	db *sql.DB
}

// NewContactRepository creates a new ContactRepository.
func NewContactRepository(db *sql.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, c *Contact) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning create contact tx: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO contacts (id, name, email, phone, category, company, role, notes, created_at, updated_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, query,
		c.ID, c.Name, c.Email, c.Phone, string(c.Category), c.Company, c.Role, c.Notes, c.CreatedAt, c.UpdatedAt,
	); err != nil {
		return fmt.Errorf("inserting contact: %w", err)
	}

	if err := contactTags.Replace(ctx, tx, c.ID, c.TagIDs); err != nil {
		return mapLinkError(err)
	}
	return tx.Commit()
}

func (r *contactRepository) FindByID(ctx context.Context, id string) (*Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts c WHERE c.id = ?`

	c, err := scanContact(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("contact not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying contact by id: %w", err)
	}

	links, err := contactTags.Load(ctx, r.db, []string{c.ID})
	if err != nil {
		return nil, err
	}
	c.TagIDs = links[c.ID]
	return &c, nil
}

func (r *contactRepository) List(ctx context.Context) ([]Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts c
	           ORDER BY c.created_at DESC, c.id DESC`
	return r.query(ctx, "listing contacts", query)
}

func (r *contactRepository) Search(ctx context.Context, q string) ([]Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts c
	           WHERE LOWER(c.name) LIKE ?
	              OR LOWER(c.email) LIKE ?
	              OR LOWER(c.phone) LIKE ?
	              OR LOWER(c.notes) LIKE ?
	              OR EXISTS (
	                  SELECT 1 FROM contact_tags ct
	                  JOIN tags t ON t.id = ct.tag_id
	                  WHERE ct.contact_id = c.id AND LOWER(t.name) LIKE ?)
	           ORDER BY c.created_at DESC, c.id DESC`

	p := database.ContainsPattern(q)
	return r.query(ctx, "searching contacts", query, p, p, p, p, p)
}

func (r *contactRepository) query(ctx context.Context, what, query string, args ...any) ([]Contact, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	defer rows.Close()

	contacts := []Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning contact row: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contact rows: %w", err)
	}
	if len(contacts) == 0 {
		return contacts, nil
	}

	ids := make([]string, len(contacts))
	for i := range contacts {
		ids[i] = contacts[i].ID
	}
	links, err := contactTags.Load(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range contacts {
		contacts[i].TagIDs = links[contacts[i].ID]
	}
	return contacts, nil
}

func (r *contactRepository) Update(ctx context.Context, c *Contact) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning update contact tx: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE contacts
	           SET name = ?, email = ?, phone = ?, category = ?, company = ?, role = ?, notes = ?, updated_at = ?
	           WHERE id = ?`
	result, err := tx.ExecContext(ctx, query,
		c.Name, c.Email, c.Phone, string(c.Category), c.Company, c.Role, c.Notes, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating contact: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFound("contact not found")
	}

	if err := contactTags.Replace(ctx, tx, c.ID, c.TagIDs); err != nil {
		return mapLinkError(err)
	}
	return tx.Commit()
}

func (r *contactRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting contact: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFound("contact not found")
	}
	return nil
}

func (r *contactRepository) MissingIDs(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT id FROM contacts WHERE id IN (` + database.Placeholders(len(ids)) + `)`
	rows, err := r.db.QueryContext(ctx, query, database.StringArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("checking contact ids: %w", err)
	}
	defer rows.Close()

	found := make(map[string]struct{}, len(ids))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning contact id: %w", err)
		}
		found[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contact ids: %w", err)
	}

	var missing []string
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (Contact, error) {
	var c Contact
	var category string
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &category,
		&c.Company, &c.Role, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	c.Category = Category(category)
	c.TagIDs = []string{}
	return c, err
}

// mapLinkError turns a tag foreign key failure (tag deleted after the
// existence check) into a validation error.
func mapLinkError(err error) error {
	if database.IsForeignKeyViolation(err) {
		return apperror.NewValidation("tagIds: unknown tag")
	}
	return err
}
