package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/librekpi/backend/internal/config"
	"github.com/librekpi/backend/internal/logger"
	"github.com/librekpi/backend/internal/model"
	"github.com/librekpi/backend/internal/repository"
)

type MajorService interface {
	GetAllMajors(ctx context.Context) ([]*model.Major, error)
	GetMajor(ctx context.Context, id primitive.ObjectID) (*model.Major, error)
	CreateMajor(ctx context.Context, req *model.CreateMajorRequest) (*model.Major, error)
	UpdateMajor(ctx context.Context, id primitive.ObjectID, req *model.UpdateMajorRequest) (*model.Major, error)
	DeleteMajor(ctx context.Context, id primitive.ObjectID) error
}

type majorService struct {
	majorRepo  repository.MajorRepository
	courseRepo repository.CourseRepository
	rdb        *redis.Client
	cfg        *config.Config
	log        zerolog.Logger
}

func NewMajorService(majorRepo repository.MajorRepository, courseRepo repository.CourseRepository, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) MajorService {
	return &majorService{
		majorRepo:  majorRepo,
		courseRepo: courseRepo,
		rdb:        rdb,
		cfg:        cfg,
		log:        logger.Component(log, "major_service"),
	}
}

// GetAllMajors serves the listing from Redis when possible. The whole
// catalog tree starts here, so this is the hottest read in the app.
func (s *majorService) GetAllMajors(ctx context.Context) ([]*model.Major, error) {
	key := config.CacheKey.MajorsListKey()

	cached, err := s.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var majors []*model.Major
		if err := json.Unmarshal(cached, &majors); err == nil {
			return majors, nil
		}
		// Unreadable cache entry: fall through to the database.
		s.rdb.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("Majors cache read failed, serving from database")
	}

	majors, err := s.majorRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list majors: %w", err)
	}

	if payload, err := json.Marshal(majors); err == nil {
		if err := s.rdb.Set(ctx, key, payload, s.cfg.CatalogCacheTTL.Std()).Err(); err != nil {
			s.log.Warn().Err(err).Msg("Majors cache write failed")
		}
	}
	return majors, nil
}

func (s *majorService) GetMajor(ctx context.Context, id primitive.ObjectID) (*model.Major, error) {
	major, err := s.majorRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get major: %w", err)
	}
	return major, nil
}

func (s *majorService) CreateMajor(ctx context.Context, req *model.CreateMajorRequest) (*model.Major, error) {
	existing, _ := s.majorRepo.GetByCode(ctx, req.Code)
	if existing != nil {
		return nil, ErrConflict
	}

	major := &model.Major{
		Code:        req.Code,
		Name:        req.Name,
		Faculty:     req.Faculty,
		Description: req.Description,
	}
	if err := s.majorRepo.Create(ctx, major); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create major: %w", err)
	}

	s.invalidateListing(ctx)
	s.log.Info().Str("major_id", major.ID.Hex()).Str("code", major.Code).Msg("Major created")
	return major, nil
}

func (s *majorService) UpdateMajor(ctx context.Context, id primitive.ObjectID, req *model.UpdateMajorRequest) (*model.Major, error) {
	major, err := s.majorRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get major: %w", err)
	}

	if req.Code != nil && *req.Code != major.Code {
		existing, _ := s.majorRepo.GetByCode(ctx, *req.Code)
		if existing != nil && existing.ID != id {
			return nil, ErrConflict
		}
		major.Code = *req.Code
	}
	if req.Name != nil {
		major.Name = *req.Name
	}
	if req.Faculty != nil {
		major.Faculty = *req.Faculty
	}
	if req.Description != nil {
		major.Description = *req.Description
	}

	if err := s.majorRepo.Update(ctx, major); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("update major: %w", err)
	}

	s.invalidateListing(ctx)
	return major, nil
}

// DeleteMajor refuses while courses still reference the major, so the
// catalog never holds orphaned courses.
func (s *majorService) DeleteMajor(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.majorRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("get major: %w", err)
	}

	count, err := s.courseRepo.CountByMajor(ctx, id)
	if err != nil {
		return fmt.Errorf("count courses: %w", err)
	}
	if count > 0 {
		return ErrDependencyExists
	}

	if err := s.majorRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete major: %w", err)
	}

	s.invalidateListing(ctx)
	s.log.Info().Str("major_id", id.Hex()).Msg("Major deleted")
	return nil
}

func (s *majorService) invalidateListing(ctx context.Context) {
	if err := s.rdb.Del(ctx, config.CacheKey.MajorsListKey()).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Majors cache invalidation failed")
	}
}
