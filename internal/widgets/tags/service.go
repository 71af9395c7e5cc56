package tags

import (
	"context"
	"strings"
	"time"

	"github.com/keyxmakerx/rolodex/internal/apperror"
	"github.com/keyxmakerx/rolodex/internal/stamp"
	"github.com/keyxmakerx/rolodex/internal/validate"
)

// TagService defines the business logic contract for tag operations.
// Handlers call these methods; they never touch the repository directly.
type TagService interface {
	List(ctx context.Context) ([]Tag, error)

	// Search matches tag names. A blank query behaves as List.
	Search(ctx context.Context, query string) ([]Tag, error)

	Get(ctx context.Context, id string) (Tag, error)
	Create(ctx context.Context, draft Draft) (Tag, error)
	Update(ctx context.Context, id string, patch Patch) (Tag, error)
	Delete(ctx context.Context, id string) error

	// EnsureExist fails with a validation error naming every id that does
	// not refer to an existing tag.
	EnsureExist(ctx context.Context, ids []string) error
}

// tagService implements TagService.
type tagService struct {
	repo  TagRepository
	now   func() time.Time
	newID func() string
}

// NewTagService creates a new TagService backed by the given repository.
func NewTagService(repo TagRepository) TagService {
	return &tagService{repo: repo, now: stamp.Now, newID: stamp.NewID}
}

func (s *tagService) List(ctx context.Context) ([]Tag, error) {
	return s.repo.List(ctx)
}

func (s *tagService) Search(ctx context.Context, query string) ([]Tag, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.repo.List(ctx)
	}
	return s.repo.Search(ctx, query)
}

func (s *tagService) Get(ctx context.Context, id string) (Tag, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Tag{}, err
	}
	return *t, nil
}

// Create validates the draft, applies the default color and persists the
// tag with a fresh id.
func (s *tagService) Create(ctx context.Context, draft Draft) (Tag, error) {
	draft.Name = strings.TrimSpace(draft.Name)
	draft.Color = strings.TrimSpace(draft.Color)
	if err := validate.Struct(draft); err != nil {
		return Tag{}, err
	}
	if draft.Color == "" {
		draft.Color = DefaultColor
	}

	now := s.now()
	tag := Tag{
		ID:        s.newID(),
		Name:      draft.Name,
		Color:     draft.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, &tag); err != nil {
		return Tag{}, err
	}
	return tag, nil
}

// Update applies the non-nil patch fields and strictly advances UpdatedAt.
func (s *tagService) Update(ctx context.Context, id string, patch Patch) (Tag, error) {
	if err := validate.Struct(patch); err != nil {
		return Tag{}, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Tag{}, err
	}

	tag := *existing
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return Tag{}, apperror.NewValidation("name: is required")
		}
		tag.Name = name
	}
	if patch.Color != nil {
		tag.Color = strings.TrimSpace(*patch.Color)
		if tag.Color == "" {
			tag.Color = DefaultColor
		}
	}
	tag.UpdatedAt = stamp.Advance(existing.UpdatedAt, s.now())

	if err := s.repo.Update(ctx, &tag); err != nil {
		return Tag{}, err
	}
	return tag, nil
}

func (s *tagService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *tagService) EnsureExist(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	missing, err := s.repo.MissingIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return apperror.NewValidation("tagIds: unknown tag " + strings.Join(missing, ", "))
	}
	return nil
}
