package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/librekpi/backend/internal/config"
	"github.com/librekpi/backend/internal/logger"
	"github.com/librekpi/backend/internal/model"
	"github.com/librekpi/backend/internal/repository"
)

// UserService covers profile self-service and the administrator's user
// management surface.
type UserService struct {
	userRepo   repository.UserRepository
	ratingRepo repository.RatingRepository
	rdb        *redis.Client
	log        zerolog.Logger
}

func NewUserService(userRepo repository.UserRepository, ratingRepo repository.RatingRepository, rdb *redis.Client, log zerolog.Logger) *UserService {
	return &UserService{
		userRepo:   userRepo,
		ratingRepo: ratingRepo,
		rdb:        rdb,
		log:        logger.Component(log, "user_service"),
	}
}

func (s *UserService) List(ctx context.Context, opts repository.UserListOptions) ([]*model.User, int64, error) {
	return s.userRepo.List(ctx, opts)
}

func (s *UserService) Get(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, req *model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.City != nil {
		user.City = *req.City
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}
	if req.DateOfBirth != nil {
		if *req.DateOfBirth == "" {
			user.DateOfBirth = nil
		} else {
			dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
			if err != nil {
				return nil, fmt.Errorf("parse date_of_birth: %w", err)
			}
			user.DateOfBirth = &dob
		}
	}
	if req.Locale != nil {
		user.Locale = *req.Locale
	}
	if req.TimezoneOffset != nil {
		user.TimezoneOffset = *req.TimezoneOffset
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// ChangeRole reassigns a user's role. The permission set lives in JWT
// claims, so the active session is cut to force a re-login with the
// new role. Demoting the last administrator is refused.
func (s *UserService) ChangeRole(ctx context.Context, id primitive.ObjectID, role model.Role) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role == role {
		return user, nil
	}

	if user.Role == model.RoleAdministrator {
		if err := s.ensureNotLastAdministrator(ctx); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.UpdateRole(ctx, id, role); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update role: %w", err)
	}
	user.Role = role

	s.dropSession(ctx, id)
	s.log.Info().Str("user_id", id.Hex()).Str("role", string(role)).Msg("Role changed")
	return user, nil
}

// Delete removes the account and its ratings. Comments survive with
// the denormalized author name, so threads keep their context.
func (s *UserService) Delete(ctx context.Context, id primitive.ObjectID) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if user.Role == model.RoleAdministrator {
		if err := s.ensureNotLastAdministrator(ctx); err != nil {
			return err
		}
	}

	ratings, err := s.ratingRepo.DeleteByUser(ctx, id)
	if err != nil {
		return fmt.Errorf("delete ratings: %w", err)
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}

	s.dropSession(ctx, id)
	s.log.Info().Str("user_id", id.Hex()).Int64("ratings", ratings).Msg("User deleted")
	return nil
}

func (s *UserService) ensureNotLastAdministrator(ctx context.Context) error {
	_, total, err := s.userRepo.List(ctx, repository.UserListOptions{
		Role:    model.RoleAdministrator,
		Page:    1,
		PerPage: 1,
	})
	if err != nil {
		return fmt.Errorf("count administrators: %w", err)
	}
	if total <= 1 {
		return ErrActionForbidden
	}
	return nil
}

func (s *UserService) dropSession(ctx context.Context, id primitive.ObjectID) {
	if err := s.rdb.Del(ctx, config.CacheKey.UserSessionKey(id.Hex())).Err(); err != nil {
		s.log.Warn().Err(err).Str("user_id", id.Hex()).Msg("Session drop failed")
	}
}
