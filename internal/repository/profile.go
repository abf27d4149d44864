package repository

import (
	"context"
	"errors"

	"devconnect/internal/cache"
	"devconnect/internal/models"

	"gorm.io/gorm"
)

// ProfileRepository defines persistence operations for profiles and their
// embedded experience/education lists.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	Save(ctx context.Context, profile *models.Profile) error
	DeleteByUserID(ctx context.Context, userID uint) error

	AddExperience(ctx context.Context, entry *models.Experience) error
	RemoveExperience(ctx context.Context, profileID, entryID uint) error
	AddEducation(ctx context.Context, entry *models.Education) error
	RemoveEducation(ctx context.Context, profileID, entryID uint) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository returns a new ProfileRepository implementation.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// newestFirst orders embedded list entries so the most recently added
// entry projects at index 0.
func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC, id DESC")
}

// publicUser limits the joined user row to the fields a profile read
// may expose. Profiles are served unauthenticated, so the email and
// timestamps must never be fetched here.
func publicUser(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "avatar")
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).
		Preload("User", publicUser).
		Preload("Experience", newestFirst).
		Preload("Education", newestFirst).
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Profile", userID)
		}
		return nil, models.NewStoreError(err)
	}
	return &profile, nil
}

func (r *profileRepository) List(ctx context.Context) ([]models.Profile, error) {
	var profiles []models.Profile
	err := r.db.WithContext(ctx).
		Preload("User", publicUser).
		Preload("Experience", newestFirst).
		Preload("Education", newestFirst).
		Find(&profiles).Error
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	return profiles, nil
}

func (r *profileRepository) Save(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Profile already exists for this user")
		}
		return models.NewStoreError(err)
	}
	cache.InvalidateProfile(ctx, profile.UserID)
	return nil
}

func (r *profileRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Profile{}).Error; err != nil {
		return models.NewStoreError(err)
	}
	cache.InvalidateProfile(ctx, userID)
	return nil
}

func (r *profileRepository) AddExperience(ctx context.Context, entry *models.Experience) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return models.NewStoreError(err)
	}
	return nil
}

// RemoveExperience deletes the entry by its own ID scoped to the owning
// profile. Removing an absent ID is a no-op, which makes removal idempotent.
func (r *profileRepository) RemoveExperience(ctx context.Context, profileID, entryID uint) error {
	err := r.db.WithContext(ctx).
		Where("profile_id = ? AND id = ?", profileID, entryID).
		Delete(&models.Experience{}).Error
	if err != nil {
		return models.NewStoreError(err)
	}
	return nil
}

func (r *profileRepository) AddEducation(ctx context.Context, entry *models.Education) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return models.NewStoreError(err)
	}
	return nil
}

// RemoveEducation mirrors RemoveExperience: delete by entry ID, idempotent.
func (r *profileRepository) RemoveEducation(ctx context.Context, profileID, entryID uint) error {
	err := r.db.WithContext(ctx).
		Where("profile_id = ? AND id = ?", profileID, entryID).
		Delete(&models.Education{}).Error
	if err != nil {
		return models.NewStoreError(err)
	}
	return nil
}
