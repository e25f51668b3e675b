package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/yukikurage/recipe-api/internal/constants"
	"github.com/yukikurage/recipe-api/internal/models"
	"github.com/yukikurage/recipe-api/internal/repository"
	"github.com/yukikurage/recipe-api/internal/validation"
)

var (
	ErrTagNotFound        = errors.New("tag not found")
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrLabelNameTaken     = errors.New("a label with this name already exists")
	ErrConflict           = errors.New("concurrent update conflict")
)

// LabelService implements the tag and ingredient stores. Both kinds share
// one contract and differ only in the repository and not-found error.
type LabelService[T any, PT models.LabelPtr[T]] struct {
	repo     repository.LabelRepository[T]
	notFound error
}

// TagService is the LabelService for tags
type TagService = LabelService[models.Tag, *models.Tag]

// IngredientService is the LabelService for ingredients
type IngredientService = LabelService[models.Ingredient, *models.Ingredient]

// NewTagService creates the tag store
func NewTagService(repo repository.LabelRepository[models.Tag]) *TagService {
	return &TagService{repo: repo, notFound: ErrTagNotFound}
}

// NewIngredientService creates the ingredient store
func NewIngredientService(repo repository.LabelRepository[models.Ingredient]) *IngredientService {
	return &IngredientService{repo: repo, notFound: ErrIngredientNotFound}
}

// List returns the user's labels ordered by name descending
func (s *LabelService[T, PT]) List(userID uint64, assignedOnly bool) ([]T, error) {
	labels, err := s.repo.ListByUser(userID, assignedOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}
	return labels, nil
}

// Get returns one of the user's labels
func (s *LabelService[T, PT]) Get(id, userID uint64) (*T, error) {
	label, err := s.repo.FindOwned(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.notFound
		}
		return nil, fmt.Errorf("failed to find label: %w", err)
	}
	return label, nil
}

// GetOrCreate returns the user's label with this name, creating it if needed
func (s *LabelService[T, PT]) GetOrCreate(userID uint64, name string) (*T, bool, error) {
	return getOrCreateLabel[T, PT](s.repo, userID, name)
}

// Rename changes the name of one of the user's labels
func (s *LabelService[T, PT]) Rename(id, userID uint64, name string) (*T, error) {
	name, err := cleanLabelName(name)
	if err != nil {
		return nil, err
	}

	label, err := s.Get(id, userID)
	if err != nil {
		return nil, err
	}

	PT(label).SetName(name)
	if err := s.repo.Update(label); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrLabelNameTaken
		}
		return nil, fmt.Errorf("failed to update label: %w", err)
	}
	return label, nil
}

// Delete removes one of the user's labels and unlinks it from recipes
func (s *LabelService[T, PT]) Delete(id, userID uint64) error {
	label, err := s.Get(id, userID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(label); err != nil {
		return fmt.Errorf("failed to delete label: %w", err)
	}
	return nil
}

func getOrCreateLabel[T any, PT models.LabelPtr[T]](repo repository.LabelRepository[T], userID uint64, name string) (*T, bool, error) {
	name, err := cleanLabelName(name)
	if err != nil {
		return nil, false, err
	}

	label, created, err := repo.GetOrCreate(userID, name)
	if err != nil {
		if errors.Is(err, repository.ErrLabelVanished) {
			return nil, false, ErrConflict
		}
		return nil, false, fmt.Errorf("failed to get or create label: %w", err)
	}
	return label, created, nil
}

// reconcileLabels turns names into IDs of the user's labels, creating the
// missing ones. Repeated names collapse to one label.
func reconcileLabels[T any, PT models.LabelPtr[T]](repo repository.LabelRepository[T], userID uint64, names []string) ([]uint64, error) {
	ids := make([]uint64, 0, len(names))
	seen := make(map[uint64]struct{}, len(names))

	for _, name := range names {
		label, _, err := getOrCreateLabel[T, PT](repo, userID, name)
		if err != nil {
			return nil, err
		}

		id := PT(label).GetID()
		if _, exists := seen[id]; exists {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return ids, nil
}

func cleanLabelName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", validation.FieldError("name", "must not be blank")
	}
	if utf8.RuneCountInString(name) > constants.MaxLabelLength {
		return "", validation.FieldError("name",
			fmt.Sprintf("must not exceed %d characters", constants.MaxLabelLength))
	}
	return name, nil
}
