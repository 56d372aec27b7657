package profile

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"jigswap.app/jigswap/internal/entity"
	"jigswap.app/jigswap/internal/modules/profile/dto"
	statService "jigswap.app/jigswap/internal/modules/stat/service"
	userRepo "jigswap.app/jigswap/internal/modules/user/repository"
	"jigswap.app/jigswap/pkg/apperror"
	"jigswap.app/jigswap/pkg/storage"
)

type ProfileService interface {
	GetByUsername(ctx context.Context, username string) (*dto.ProfileResponse, error)
	GetCurrent(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error)
	Update(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileInput, avatar *dto.AvatarFile) (*dto.ProfileResponse, error)
}

type profileService struct {
	repo         userRepo.UserRepository
	imageStorage storage.ImageStorage
	stats        statService.StatService
}

func NewProfileService(repo userRepo.UserRepository, imageStorage storage.ImageStorage, stats statService.StatService) ProfileService {
	return &profileService{
		repo:         repo,
		imageStorage: imageStorage,
		stats:        stats,
	}
}

func (s *profileService) GetByUsername(ctx context.Context, username string) (*dto.ProfileResponse, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user")
		}
		return nil, err
	}

	return s.buildResponse(ctx, user), nil
}

func (s *profileService) GetCurrent(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user")
		}
		return nil, err
	}

	return s.buildResponse(ctx, user), nil
}

func (s *profileService) Update(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileInput, avatar *dto.AvatarFile) (*dto.ProfileResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, apperror.NotFound("user")
	}

	if input.Username != nil && *input.Username != "" && *input.Username != user.Username {
		sanitized := strings.ReplaceAll(*input.Username, " ", "_")
		if len(sanitized) < 3 {
			return nil, fmt.Errorf("username must be at least 3 characters: %w", apperror.ErrBadRequest)
		}
		if len(sanitized) > 50 {
			return nil, fmt.Errorf("username must be at most 50 characters: %w", apperror.ErrBadRequest)
		}
		if other, err := s.repo.FindByUsername(ctx, sanitized); err == nil && other.ID != user.ID {
			return nil, apperror.Conflict("username already taken")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Username = sanitized
	}

	if input.Password != nil && *input.Password != "" {
		if len(*input.Password) < 8 {
			return nil, fmt.Errorf("password must be at least 8 characters: %w", apperror.ErrBadRequest)
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hashedPassword)
	}

	if input.Bio != nil {
		user.Bio = normalizeOptional(input.Bio)
	}
	if input.Location != nil {
		user.Location = normalizeOptional(input.Location)
	}
	if input.PreferredLang != nil && *input.PreferredLang != "" {
		user.PreferredLang = *input.PreferredLang
	}

	if avatar != nil && avatar.Reader != nil && s.imageStorage != nil {
		url, err := s.imageStorage.UploadImage(ctx, avatar.Reader, "avatars", avatar.FileName)
		if err != nil {
			return nil, err
		}
		user.AvatarURL = &url
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return s.buildResponse(ctx, user), nil
}

func (s *profileService) buildResponse(ctx context.Context, user *entity.User) *dto.ProfileResponse {
	sanitized := *user
	sanitized.PasswordHash = ""

	resp := &dto.ProfileResponse{User: &sanitized}

	if s.stats != nil {
		stats, err := s.stats.GetUserStats(ctx, user.ID)
		if err != nil {
			log.Printf("failed to load stats for user %s: %v", user.ID, err)
		} else {
			resp.Stats = stats
		}
	}

	return resp
}

func normalizeOptional(v *string) *string {
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
