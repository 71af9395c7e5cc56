package campaigns

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/keyxmakerx/rolodex/internal/apperror"
	"github.com/keyxmakerx/rolodex/internal/database"
)

// CampaignRepository defines the data access contract for campaigns and
// their audience links.
type CampaignRepository interface {
	// Create inserts the campaign and its contact/tag links in one transaction.
	Create(ctx context.Context, c *Campaign) error

	FindByID(ctx context.Context, id string) (*Campaign, error)

	// List returns every campaign, newest first.
	List(ctx context.Context) ([]Campaign, error)

	// Search matches title, description and linked tag names,
	// case-insensitively.
	Search(ctx context.Context, query string) ([]Campaign, error)

	// Update rewrites the row and replaces both link sets.
	Update(ctx context.Context, c *Campaign) error

	Delete(ctx context.Context, id string) error
}

var (
	campaignContacts = database.Link{Table: "campaign_contacts", OwnerCol: "campaign_id", RefCol: "contact_id"}
	campaignTags     = database.Link{Table: "campaign_tags", OwnerCol: "campaign_id", RefCol: "tag_id"}
)

const campaignColumns = `c.id, c.title, c.description, c.status, c.start_date, c.end_date, c.target_mode, c.created_at, c.updated_at`

// campaignRepository implements CampaignRepository using MariaDB.
type campaignRepository struct {
	db *sql.DB
}

// NewCampaignRepository creates a new CampaignRepository.
func NewCampaignRepository(db *sql.DB) CampaignRepository {
	return &campaignRepository{db: db}
}

func (r *campaignRepository) Create(ctx context.Context, c *Campaign) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning create campaign tx: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO campaigns (id, title, description, status, start_date, end_date, target_mode, created_at, updated_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, query,
		c.ID, c.Title, c.Description, string(c.Status), nullTime(c.StartDate), nullTime(c.EndDate),
		string(c.TargetMode), c.CreatedAt, c.UpdatedAt,
	); err != nil {
		return fmt.Errorf("inserting campaign: %w", err)
	}

	if err := r.replaceLinks(ctx, tx, c); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *campaignRepository) FindByID(ctx context.Context, id string) (*Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns c WHERE c.id = ?`

	c, err := scanCampaign(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("campaign not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying campaign by id: %w", err)
	}

	list := []Campaign{c}
	if err := r.loadLinks(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (r *campaignRepository) List(ctx context.Context) ([]Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns c
	           ORDER BY c.created_at DESC, c.id DESC`
	return r.query(ctx, "listing campaigns", query)
}

func (r *campaignRepository) Search(ctx context.Context, q string) ([]Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns c
	           WHERE LOWER(c.title) LIKE ?
	              OR LOWER(c.description) LIKE ?
	              OR EXISTS (
	                  SELECT 1 FROM campaign_tags ct
	                  JOIN tags t ON t.id = ct.tag_id
	                  WHERE ct.campaign_id = c.id AND LOWER(t.name) LIKE ?)
	           ORDER BY c.created_at DESC, c.id DESC`

	p := database.ContainsPattern(q)
	return r.query(ctx, "searching campaigns", query, p, p, p)
}

func (r *campaignRepository) query(ctx context.Context, what, query string, args ...any) ([]Campaign, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	defer rows.Close()

	campaigns := []Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning campaign row: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating campaign rows: %w", err)
	}
	if err := r.loadLinks(ctx, campaigns); err != nil {
		return nil, err
	}
	return campaigns, nil
}

func (r *campaignRepository) Update(ctx context.Context, c *Campaign) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning update campaign tx: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE campaigns
	           SET title = ?, description = ?, status = ?, start_date = ?, end_date = ?, target_mode = ?, updated_at = ?
	           WHERE id = ?`
	result, err := tx.ExecContext(ctx, query,
		c.Title, c.Description, string(c.Status), nullTime(c.StartDate), nullTime(c.EndDate),
		string(c.TargetMode), c.UpdatedAt, c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating campaign: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFound("campaign not found")
	}

	if err := r.replaceLinks(ctx, tx, c); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *campaignRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM campaigns WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting campaign: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFound("campaign not found")
	}
	return nil
}

func (r *campaignRepository) replaceLinks(ctx context.Context, tx *sql.Tx, c *Campaign) error {
	if err := campaignContacts.Replace(ctx, tx, c.ID, c.ContactIDs); err != nil {
		if database.IsForeignKeyViolation(err) {
			return apperror.NewValidation("contactIds: unknown contact")
		}
		return err
	}
	if err := campaignTags.Replace(ctx, tx, c.ID, c.TagIDs); err != nil {
		if database.IsForeignKeyViolation(err) {
			return apperror.NewValidation("tagIds: unknown tag")
		}
		return err
	}
	return nil
}

// loadLinks fills ContactIDs and TagIDs for every campaign with one query
// per join table.
func (r *campaignRepository) loadLinks(ctx context.Context, campaigns []Campaign) error {
	if len(campaigns) == 0 {
		return nil
	}
	ids := make([]string, len(campaigns))
	for i := range campaigns {
		ids[i] = campaigns[i].ID
	}

	contactLinks, err := campaignContacts.Load(ctx, r.db, ids)
	if err != nil {
		return err
	}
	tagLinks, err := campaignTags.Load(ctx, r.db, ids)
	if err != nil {
		return err
	}
	for i := range campaigns {
		campaigns[i].ContactIDs = contactLinks[campaigns[i].ID]
		campaigns[i].TagIDs = tagLinks[campaigns[i].ID]
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCampaign(row rowScanner) (Campaign, error) {
	var c Campaign
	var status, target string
	var start, end sql.NullTime
	err := row.Scan(&c.ID, &c.Title, &c.Description, &status, &start, &end,
		&target, &c.CreatedAt, &c.UpdatedAt)
	c.Status = Status(status)
	c.TargetMode = TargetMode(target)
	if start.Valid {
		t := start.Time
		c.StartDate = &t
	}
	if end.Valid {
		t := end.Time
		c.EndDate = &t
	}
	c.ContactIDs = []string{}
	c.TagIDs = []string{}
	return c, err
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
