// Package service implements the business logic between HTTP handlers
// and repositories.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"devconnect/internal/cache"
	"devconnect/internal/models"
	"devconnect/internal/repository"
	"devconnect/internal/validation"
)

// ProfileService manages developer profiles and their embedded
// experience and education lists.
type ProfileService struct {
	profileRepo repository.ProfileRepository
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository

	// cascadeDeletePosts controls whether deleting an account also
	// removes the user's posts, comments and likes.
	cascadeDeletePosts bool
}

// UpsertProfileInput carries the fields of a profile upsert. Nil
// pointers mean "not supplied": on update those fields keep their
// stored values.
type UpsertProfileInput struct {
	UserID         uint
	Company        *string
	Website        *string
	Location       *string
	Status         *string
	Skills         *string // comma-separated
	Bio            *string
	GithubUsername *string
	Youtube        *string
	Twitter        *string
	Facebook       *string
	Linkedin       *string
	Instagram      *string
}

type AddExperienceInput struct {
	UserID      uint
	Title       string
	Company     string
	Location    string
	From        string
	To          string
	Current     bool
	Description string
}

type AddEducationInput struct {
	UserID       uint
	School       string
	Degree       string
	FieldOfStudy string
	From         string
	To           string
	Current      bool
	Description  string
}

func NewProfileService(
	profileRepo repository.ProfileRepository,
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	cascadeDeletePosts bool,
) *ProfileService {
	return &ProfileService{
		profileRepo:        profileRepo,
		userRepo:           userRepo,
		postRepo:           postRepo,
		commentRepo:        commentRepo,
		cascadeDeletePosts: cascadeDeletePosts,
	}
}

// GetByUserID returns the profile owned by userID with its experience
// and education lists, newest entries first.
func (s *ProfileService) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.profileRepo.GetByUserID(ctx, userID)
}

// List returns all profiles. The result is cached briefly since the
// profiles index is the most-read page and tolerates slight staleness.
func (s *ProfileService) List(ctx context.Context) ([]models.Profile, error) {
	var profiles []models.Profile
	err := cache.Aside(ctx, cache.ProfileListKey, &profiles, cache.ListTTL, func() error {
		var fetchErr error
		profiles, fetchErr = s.profileRepo.List(ctx)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// Upsert creates the caller's profile or merges the supplied fields
// into an existing one; fields left out of the request keep their
// stored values. Creating a profile requires status and skills; skills
// arrive as a comma-separated string and are normalized into a trimmed
// list.
func (s *ProfileService) Upsert(ctx context.Context, in UpsertProfileInput) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, in.UserID)
	if err != nil {
		var appErr *models.AppError
		if !errors.As(err, &appErr) || appErr.Code != models.CodeNotFound {
			return nil, err
		}
		if err := validation.ProfileSchema.Check(map[string]string{
			"status": deref(in.Status),
			"skills": deref(in.Skills),
		}); err != nil {
			return nil, err
		}
		profile = &models.Profile{UserID: in.UserID}
	}

	if in.Status != nil {
		status := strings.TrimSpace(*in.Status)
		if status == "" {
			return nil, models.NewValidationError("Status is required")
		}
		profile.Status = status
	}
	if in.Skills != nil {
		skills := splitSkills(*in.Skills)
		if len(skills) == 0 {
			return nil, models.NewValidationError("Skills is required")
		}
		profile.Skills = skills
	}
	applyField(&profile.Company, in.Company)
	applyField(&profile.Website, in.Website)
	applyField(&profile.Location, in.Location)
	applyField(&profile.Bio, in.Bio)
	if in.GithubUsername != nil {
		profile.GithubUsername = strings.TrimSpace(*in.GithubUsername)
	}
	applyField(&profile.Social.Youtube, in.Youtube)
	applyField(&profile.Social.Twitter, in.Twitter)
	applyField(&profile.Social.Facebook, in.Facebook)
	applyField(&profile.Social.Linkedin, in.Linkedin)
	applyField(&profile.Social.Instagram, in.Instagram)

	// Save carries preloaded associations from the fetch; persist only
	// the profile row itself.
	profile.Experience = nil
	profile.Education = nil

	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, err
	}
	return s.profileRepo.GetByUserID(ctx, in.UserID)
}

// AddExperience prepends a work history entry to the caller's profile.
func (s *ProfileService) AddExperience(ctx context.Context, in AddExperienceInput) (*models.Profile, error) {
	if err := validation.ExperienceSchema.Check(map[string]string{
		"title":   in.Title,
		"company": in.Company,
		"from":    in.From,
	}); err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.GetByUserID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	from, err := parseDate(in.From)
	if err != nil {
		return nil, models.NewValidationError("From date is invalid")
	}
	to, err := parseOptionalDate(in.To, in.Current)
	if err != nil {
		return nil, models.NewValidationError("To date is invalid")
	}

	entry := &models.Experience{
		ProfileID:   profile.ID,
		Title:       strings.TrimSpace(in.Title),
		Company:     strings.TrimSpace(in.Company),
		Location:    in.Location,
		From:        from,
		To:          to,
		Current:     in.Current,
		Description: in.Description,
	}
	if err := s.profileRepo.AddExperience(ctx, entry); err != nil {
		return nil, err
	}
	cache.InvalidateProfile(ctx, in.UserID)
	return s.profileRepo.GetByUserID(ctx, in.UserID)
}

// RemoveExperience deletes the entry with the given ID from the
// caller's profile. An unknown ID leaves the list unchanged.
func (s *ProfileService) RemoveExperience(ctx context.Context, userID, entryID uint) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.profileRepo.RemoveExperience(ctx, profile.ID, entryID); err != nil {
		return nil, err
	}
	cache.InvalidateProfile(ctx, userID)
	return s.profileRepo.GetByUserID(ctx, userID)
}

// AddEducation prepends an education entry to the caller's profile.
func (s *ProfileService) AddEducation(ctx context.Context, in AddEducationInput) (*models.Profile, error) {
	if err := validation.EducationSchema.Check(map[string]string{
		"school":         in.School,
		"degree":         in.Degree,
		"field_of_study": in.FieldOfStudy,
		"from":           in.From,
	}); err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.GetByUserID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	from, err := parseDate(in.From)
	if err != nil {
		return nil, models.NewValidationError("From date is invalid")
	}
	to, err := parseOptionalDate(in.To, in.Current)
	if err != nil {
		return nil, models.NewValidationError("To date is invalid")
	}

	entry := &models.Education{
		ProfileID:    profile.ID,
		School:       strings.TrimSpace(in.School),
		Degree:       strings.TrimSpace(in.Degree),
		FieldOfStudy: strings.TrimSpace(in.FieldOfStudy),
		From:         from,
		To:           to,
		Current:      in.Current,
		Description:  in.Description,
	}
	if err := s.profileRepo.AddEducation(ctx, entry); err != nil {
		return nil, err
	}
	cache.InvalidateProfile(ctx, in.UserID)
	return s.profileRepo.GetByUserID(ctx, in.UserID)
}

// RemoveEducation deletes the entry with the given ID from the
// caller's profile. An unknown ID leaves the list unchanged.
func (s *ProfileService) RemoveEducation(ctx context.Context, userID, entryID uint) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.profileRepo.RemoveEducation(ctx, profile.ID, entryID); err != nil {
		return nil, err
	}
	cache.InvalidateProfile(ctx, userID)
	return s.profileRepo.GetByUserID(ctx, userID)
}

// DeleteAccount removes the caller's profile and account. When the
// cascade flag is on, their posts, comments and likes go too, so no
// orphaned content survives the account.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID uint) error {
	if s.cascadeDeletePosts {
		if err := s.commentRepo.DeleteByUserID(ctx, userID); err != nil {
			return err
		}
		if err := s.postRepo.RemoveLikesByUser(ctx, userID); err != nil {
			return err
		}
		if err := s.postRepo.DeleteByUserID(ctx, userID); err != nil {
			return err
		}
	}
	if err := s.profileRepo.DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, userID)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// applyField overwrites dst only when the field was supplied.
func applyField(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// splitSkills turns "Go, React,,TypeScript" into ["Go","React","TypeScript"].
func splitSkills(csv string) models.SkillList {
	var skills models.SkillList
	for _, part := range strings.Split(csv, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			skills = append(skills, trimmed)
		}
	}
	return skills
}

// parseDate accepts both date-only and RFC3339 timestamps since
// clients send either form.
func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// parseOptionalDate returns nil for open-ended entries: empty input or
// a position marked current.
func parseOptionalDate(value string, current bool) (*time.Time, error) {
	if current || strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := parseDate(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
