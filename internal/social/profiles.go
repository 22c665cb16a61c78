package social

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/safetweet/safetweet/internal/database"
	"github.com/safetweet/safetweet/internal/media"
)

const (
	maxNameLength     = 50
	maxUsernameLength = 30
	maxBioLength      = 160
	maxLocationLength = 60
	minAge, maxAge    = 1, 150

	avatarSize   = 512
	bannerWidth  = 1500
	bannerHeight = 500
)

var genders = map[string]bool{"male": true, "female": true, "other": true, "unspecified": true}

// GetProfile falls back to a default profile for users who never saved one.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (Profile, error) {
	p, err := s.store.GetProfile(ctx, userID)
	if err == nil {
		return toProfile(p), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Profile{}, fmt.Errorf("failed to load profile: %w", err)
	}

	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	return toProfile(database.Profile{
		UserID:    u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.CreatedAt,
	}), nil
}

// ensureProfile creates the profile row if an older account lacks one.
func (s *Service) ensureProfile(ctx context.Context, userID uuid.UUID) error {
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	return s.store.EnsureProfile(ctx, database.EnsureProfileParams{
		UserID:    u.ID,
		Email:     u.Email,
		CreatedAt: s.now(),
	})
}

func validateProfileUpdate(upd ProfileUpdate) (database.UpdateProfileParams, error) {
	var arg database.UpdateProfileParams

	if upd.Name != nil {
		name := sanitizeText(*upd.Name)
		if n := runeLen(name); n == 0 || n > maxNameLength {
			return arg, invalidf("name must be between 1 and %d characters", maxNameLength)
		}
		arg.Name = sql.NullString{String: name, Valid: true}
	}
	if upd.Username != nil {
		username := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(*upd.Username), "@"))
		if runeLen(username) > maxUsernameLength {
			return arg, invalidf("username must be at most %d characters", maxUsernameLength)
		}
		for _, r := range username {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '.' {
				return arg, invalidf("username may only contain letters, digits, '_' and '.'")
			}
		}
		arg.Username = sql.NullString{String: username, Valid: true}
	}
	if upd.Bio != nil {
		bio := sanitizeText(*upd.Bio)
		if runeLen(bio) > maxBioLength {
			return arg, invalidf("bio must be at most %d characters", maxBioLength)
		}
		arg.Bio = sql.NullString{String: bio, Valid: true}
	}
	if upd.Age != nil {
		if *upd.Age < minAge || *upd.Age > maxAge {
			return arg, invalidf("age must be between %d and %d", minAge, maxAge)
		}
		arg.Age = sql.NullInt32{Int32: *upd.Age, Valid: true}
	}
	if upd.Gender != nil {
		gender := strings.ToLower(strings.TrimSpace(*upd.Gender))
		if !genders[gender] {
			return arg, invalidf("gender must be one of male, female, other, unspecified")
		}
		arg.Gender = sql.NullString{String: gender, Valid: true}
	}
	if upd.Location != nil {
		location := sanitizeText(*upd.Location)
		if runeLen(location) > maxLocationLength {
			return arg, invalidf("location must be at most %d characters", maxLocationLength)
		}
		arg.Location = sql.NullString{String: location, Valid: true}
	}

	return arg, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, upd ProfileUpdate) (Profile, error) {
	arg, err := validateProfileUpdate(upd)
	if err != nil {
		return Profile{}, err
	}
	if err := s.ensureProfile(ctx, userID); err != nil {
		return Profile{}, err
	}

	arg.UserID = userID
	arg.UpdatedAt = s.now()
	p, err := s.store.UpdateProfile(ctx, arg)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to update profile: %w", err)
	}
	return toProfile(p), nil
}

func (s *Service) decodeImage(dataURI string) ([]byte, error) {
	d, err := media.ParseDataURI(dataURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if d.Kind() != media.KindImage {
		return nil, invalidf("an image is required")
	}
	if len(d.Data) > s.limits.MaxMediaBytes {
		return nil, invalidf("image exceeds %d bytes", s.limits.MaxMediaBytes)
	}
	return d.Data, nil
}

func (s *Service) SetProfilePhoto(ctx context.Context, userID uuid.UUID, dataURI string) (Profile, error) {
	data, err := s.decodeImage(dataURI)
	if err != nil {
		return Profile{}, err
	}
	avatar, err := media.SquareAvatar(data, avatarSize)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.storePhoto(ctx, userID, sql.NullString{String: avatar.String(), Valid: true})
}

func (s *Service) ClearProfilePhoto(ctx context.Context, userID uuid.UUID) (Profile, error) {
	return s.storePhoto(ctx, userID, sql.NullString{})
}

func (s *Service) storePhoto(ctx context.Context, userID uuid.UUID, photo sql.NullString) (Profile, error) {
	if err := s.ensureProfile(ctx, userID); err != nil {
		return Profile{}, err
	}
	p, err := s.store.UpdateProfilePhoto(ctx, database.UpdateProfilePhotoParams{
		UserID:    userID,
		Photo:     photo,
		UpdatedAt: s.now(),
	})
	if err != nil {
		return Profile{}, fmt.Errorf("failed to update photo: %w", err)
	}
	return toProfile(p), nil
}

func (s *Service) SetProfileBanner(ctx context.Context, userID uuid.UUID, dataURI string) (Profile, error) {
	data, err := s.decodeImage(dataURI)
	if err != nil {
		return Profile{}, err
	}
	banner, err := media.NormalizeImage(data, bannerWidth, bannerHeight)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.storeBanner(ctx, userID, sql.NullString{String: banner.String(), Valid: true})
}

func (s *Service) ClearProfileBanner(ctx context.Context, userID uuid.UUID) (Profile, error) {
	return s.storeBanner(ctx, userID, sql.NullString{})
}

func (s *Service) storeBanner(ctx context.Context, userID uuid.UUID, banner sql.NullString) (Profile, error) {
	if err := s.ensureProfile(ctx, userID); err != nil {
		return Profile{}, err
	}
	p, err := s.store.UpdateProfileBanner(ctx, database.UpdateProfileBannerParams{
		UserID:    userID,
		Banner:    banner,
		UpdatedAt: s.now(),
	})
	if err != nil {
		return Profile{}, fmt.Errorf("failed to update banner: %w", err)
	}
	return toProfile(p), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchProfiles matches names case-insensitively; LIKE wildcards in query
// are taken literally.
func (s *Service) SearchProfiles(ctx context.Context, query string, limit int) ([]ProfileSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 || limit > maxSearchResults {
		limit = maxSearchResults
	}

	rows, err := s.store.SearchProfilesByName(ctx, database.SearchProfilesByNameParams{
		Pattern:    likeEscaper.Replace(query),
		MaxResults: int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search profiles: %w", err)
	}

	out := make([]ProfileSummary, 0, len(rows))
	for _, p := range rows {
		out = append(out, ProfileSummary{
			UserID:   p.UserID,
			Name:     p.Name,
			Username: p.Username,
			Photo:    p.Photo.String,
		})
	}
	return out, nil
}

// loadProfiles fetches profiles for ids in one query.
func (s *Service) loadProfiles(ctx context.Context, q database.Querier, ids []uuid.UUID) (map[uuid.UUID]database.Profile, error) {
	out := make(map[uuid.UUID]database.Profile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := q.GetProfilesByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}
	for _, p := range rows {
		out[p.UserID] = p
	}
	return out, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
