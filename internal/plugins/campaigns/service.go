package campaigns

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

// ReferenceChecker verifies that referenced ids exist at assignment time.
// Implemented by tags.TagService and contacts.ContactService.
type ReferenceChecker interface {
	EnsureExist(ctx context.Context, ids []string) error
}

// CampaignService defines the business logic contract for campaigns.
type CampaignService interface {
	List(ctx context.Context) ([]Campaign, error)

	// Search matches title, description and tag names. A blank query
	// behaves as List.
	Search(ctx context.Context, query string) ([]Campaign, error)

	Get(ctx context.Context, id string) (Campaign, error)
	Create(ctx context.Context, draft Draft) (Campaign, error)
	Update(ctx context.Context, id string, patch Patch) (Campaign, error)
	Delete(ctx context.Context, id string) error
}

type campaignService struct {
	repo     CampaignRepository
	tags     ReferenceChecker
	contacts ReferenceChecker
	now      func() time.Time
	newID    func() string
}

// NewCampaignService creates a new CampaignService.
func NewCampaignService(repo CampaignRepository, tagChecker, contactChecker ReferenceChecker) CampaignService {
	return &campaignService{
		repo:     repo,
		tags:     tagChecker,
		contacts: contactChecker,
		now:      stamp.Now,
		newID:    stamp.NewID,
	}
}

func (s *campaignService) List(ctx context.Context) ([]Campaign, error) {
	return s.repo.List(ctx)
}

func (s *campaignService) Search(ctx context.Context, query string) ([]Campaign, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.repo.List(ctx)
	}
	return s.repo.Search(ctx, query)
}

func (s *campaignService) Get(ctx context.Context, id string) (Campaign, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Campaign{}, err
	}
	return *c, nil
}

// Create applies defaults, validates the draft and its references, and
// stores the campaign under a fresh id.
func (s *campaignService) Create(ctx context.Context, draft Draft) (Campaign, error) {
	c := Campaign{
		Title:       strings.TrimSpace(draft.Title),
		Description: sanitize.Text(draft.Description),
		Status:      draft.Status,
		StartDate:   utcPtr(draft.StartDate),
		EndDate:     utcPtr(draft.EndDate),
		TargetMode:  draft.TargetMode,
		ContactIDs:  tags.NormalizeIDs(draft.ContactIDs),
		TagIDs:      tags.NormalizeIDs(draft.TagIDs),
	}
	if c.Status == "" {
		c.Status = StatusDraft
	}
	if c.TargetMode == "" {
		c.TargetMode = TargetAll
	}

	if err := s.check(ctx, &c, true, true); err != nil {
		return Campaign{}, err
	}

	now := s.now()
	c.ID = s.newID()
	c.CreatedAt = now
	c.UpdatedAt = now

	if err := s.repo.Create(ctx, &c); err != nil {
		return Campaign{}, err
	}
	return c, nil
}

// Update merges the patch over the stored campaign, validates the result
// and strictly advances UpdatedAt.
func (s *campaignService) Update(ctx context.Context, id string, patch Patch) (Campaign, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Campaign{}, err
	}

	c := *existing
	if patch.Title != nil {
		c.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		c.Description = sanitize.Text(*patch.Description)
	}
	if patch.Status != nil {
		c.Status = *patch.Status
	}
	if patch.ClearStartDate {
		c.StartDate = nil
	} else if patch.StartDate != nil {
		c.StartDate = utcPtr(patch.StartDate)
	}
	if patch.ClearEndDate {
		c.EndDate = nil
	} else if patch.EndDate != nil {
		c.EndDate = utcPtr(patch.EndDate)
	}
	if patch.TargetMode != nil {
		c.TargetMode = *patch.TargetMode
	}
	if patch.ContactIDs != nil {
		c.ContactIDs = tags.NormalizeIDs(*patch.ContactIDs)
	}
	if patch.TagIDs != nil {
		c.TagIDs = tags.NormalizeIDs(*patch.TagIDs)
	}

	if c.Status == "" || c.TargetMode == "" {
		return Campaign{}, apperror.NewValidation("status and targetMode are required")
	}
	if err := s.check(ctx, &c, patch.TagIDs != nil, patch.ContactIDs != nil); err != nil {
		return Campaign{}, err
	}

	c.UpdatedAt = stamp.Advance(existing.UpdatedAt, s.now())
	if err := s.repo.Update(ctx, &c); err != nil {
		return Campaign{}, err
	}
	return c, nil
}

func (s *campaignService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// check validates field constraints, the date range and, when requested,
// that linked tags and contacts exist.
func (s *campaignService) check(ctx context.Context, c *Campaign, checkTags, checkContacts bool) error {
	if err := validate.Struct(Draft{
		Title: c.Title, Description: c.Description, Status: c.Status, TargetMode: c.TargetMode,
	}); err != nil {
		return err
	}
	if c.StartDate != nil && c.EndDate != nil && c.EndDate.Before(*c.StartDate) {
		return apperror.NewValidation("endDate: must not be before startDate")
	}
	if checkTags {
		if err := s.tags.EnsureExist(ctx, c.TagIDs); err != nil {
			return err
		}
	}
	if checkContacts {
		if err := s.contacts.EnsureExist(ctx, c.ContactIDs); err != nil {
			return err
		}
	}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC().Truncate(stamp.Resolution)
	return &u
}
