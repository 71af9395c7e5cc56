package contacts

import (
	"context"
	"strings"
	"time"

	"github.com/keyxmakerx/rolodex/internal/apperror"
	"github.com/keyxmakerx/rolodex/internal/sanitize"
	"github.com/keyxmakerx/rolodex/internal/stamp"
	"github.com/keyxmakerx/rolodex/internal/validate"
	"github.com/keyxmakerx/rolodex/internal/widgets/tags"
)

// TagChecker verifies tag references at assignment time. Implemented by
// tags.TagService.
type TagChecker interface {
	EnsureExist(ctx context.Context, ids []string) error
}

// ContactService defines the business logic contract for contacts.
type ContactService interface {
	List(ctx context.Context) ([]Contact, error)

	// Search matches name, email, phone, notes and tag names. A blank query
	// behaves as List.
	Search(ctx context.Context, query string) ([]Contact, error)

	Get(ctx context.Context, id string) (Contact, error)
	Create(ctx context.Context, draft Draft) (Contact, error)
	Update(ctx context.Context, id string, patch Patch) (Contact, error)
	Delete(ctx context.Context, id string) error

	// EnsureExist fails with a validation error naming every id that does
	// not refer to an existing contact.
	EnsureExist(ctx context.Context, ids []string) error
}

type contactService struct {
	repo  ContactRepository
	tags  TagChecker
	now   func() time.Time
	newID func() string
}

// NewContactService creates a new ContactService.
func NewContactService(repo ContactRepository, tagChecker TagChecker) ContactService {
	return &contactService{repo: repo, tags: tagChecker, now: stamp.Now, newID: stamp.NewID}
}

func (s *contactService) List(ctx context.Context) ([]Contact, error) {
	return s.repo.List(ctx)
}

func (s *contactService) Search(ctx context.Context, query string) ([]Contact, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.repo.List(ctx)
	}
	return s.repo.Search(ctx, query)
}

func (s *contactService) Get(ctx context.Context, id string) (Contact, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Contact{}, err
	}
	return *c, nil
}

// Create normalizes and validates the draft, checks that every referenced
// tag exists, and stores the contact under a fresh id.
func (s *contactService) Create(ctx context.Context, draft Draft) (Contact, error) {
	c := Contact{
		Name:     strings.TrimSpace(draft.Name),
		Email:    strings.TrimSpace(draft.Email),
		Phone:    strings.TrimSpace(draft.Phone),
		Category: draft.Category,
		TagIDs:   tags.NormalizeIDs(draft.TagIDs),
		Company:  sanitize.Text(draft.Company),
		Role:     sanitize.Text(draft.Role),
		Notes:    sanitize.Text(draft.Notes),
	}
	if c.Category == "" {
		c.Category = CategoryOther
	}

	if err := validate.Struct(Draft{
		Name: c.Name, Email: c.Email, Phone: c.Phone, Category: c.Category,
		Company: c.Company, Role: c.Role, Notes: c.Notes,
	}); err != nil {
		return Contact{}, err
	}
	if err := s.tags.EnsureExist(ctx, c.TagIDs); err != nil {
		return Contact{}, err
	}

	now := s.now()
	c.ID = s.newID()
	c.CreatedAt = now
	c.UpdatedAt = now

	if err := s.repo.Create(ctx, &c); err != nil {
		return Contact{}, err
	}
	return c, nil
}

// Update merges the non-nil patch fields over the stored contact, validates
// the result and strictly advances UpdatedAt.
func (s *contactService) Update(ctx context.Context, id string, patch Patch) (Contact, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Contact{}, err
	}

	c := *existing
	if patch.Name != nil {
		c.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Email != nil {
		c.Email = strings.TrimSpace(*patch.Email)
	}
	if patch.Phone != nil {
		c.Phone = strings.TrimSpace(*patch.Phone)
	}
	if patch.Category != nil {
		c.Category = *patch.Category
	}
	if patch.Company != nil {
		c.Company = sanitize.Text(*patch.Company)
	}
	if patch.Role != nil {
		c.Role = sanitize.Text(*patch.Role)
	}
	if patch.Notes != nil {
		c.Notes = sanitize.Text(*patch.Notes)
	}

	if err := validate.Struct(Draft{
		Name: c.Name, Email: c.Email, Phone: c.Phone, Category: c.Category,
		Company: c.Company, Role: c.Role, Notes: c.Notes,
	}); err != nil {
		return Contact{}, err
	}
	if c.Category == "" {
		return Contact{}, apperror.NewValidation("category: is required")
	}

	if patch.TagIDs != nil {
		c.TagIDs = tags.NormalizeIDs(*patch.TagIDs)
		if err := s.tags.EnsureExist(ctx, c.TagIDs); err != nil {
			return Contact{}, err
		}
	}

	c.UpdatedAt = stamp.Advance(existing.UpdatedAt, s.now())
	if err := s.repo.Update(ctx, &c); err != nil {
		return Contact{}, err
	}
	return c, nil
}

func (s *contactService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *contactService) EnsureExist(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	missing, err := s.repo.MissingIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return apperror.NewValidation("contactIds: unknown contact " + strings.Join(missing, ", "))
	}
	return nil
}
