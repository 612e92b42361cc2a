package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/librekpi/backend/internal/logger"
	"github.com/librekpi/backend/internal/model"
	"github.com/librekpi/backend/internal/repository"
)

type LectureService struct {
	lectureRepo repository.LectureRepository
	courseRepo  repository.CourseRepository
	log         zerolog.Logger
}

func NewLectureService(lectureRepo repository.LectureRepository, courseRepo repository.CourseRepository, log zerolog.Logger) *LectureService {
	return &LectureService{
		lectureRepo: lectureRepo,
		courseRepo:  courseRepo,
		log:         logger.Component(log, "lecture_service"),
	}
}

func (s *LectureService) ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]*model.Lecture, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("course: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("get course: %w", err)
	}
	return s.lectureRepo.ListByCourse(ctx, courseID)
}

func (s *LectureService) Get(ctx context.Context, id primitive.ObjectID) (*model.Lecture, error) {
	lecture, err := s.lectureRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get lecture: %w", err)
	}
	return lecture, nil
}

// Create attaches a lecture to a course. Lecture numbers are unique per
// course, backed by an index; a clash maps to a conflict.
func (s *LectureService) Create(ctx context.Context, courseID primitive.ObjectID, req *model.CreateLectureRequest) (*model.Lecture, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("course: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("get course: %w", err)
	}

	lecture := &model.Lecture{
		CourseID:  courseID,
		Number:    req.Number,
		Title:     req.Title,
		Abstract:  req.Abstract,
		Room:      req.Room,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
		Materials: req.Materials,
	}
	if err := s.lectureRepo.Create(ctx, lecture); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create lecture: %w", err)
	}

	s.log.Info().
		Str("lecture_id", lecture.ID.Hex()).
		Str("course_id", courseID.Hex()).
		Int("number", lecture.Number).
		Msg("Lecture created")
	return lecture, nil
}

func (s *LectureService) Update(ctx context.Context, id primitive.ObjectID, req *model.UpdateLectureRequest) (*model.Lecture, error) {
	lecture, err := s.lectureRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get lecture: %w", err)
	}

	if req.Number != nil {
		lecture.Number = *req.Number
	}
	if req.Title != nil {
		lecture.Title = *req.Title
	}
	if req.Abstract != nil {
		lecture.Abstract = *req.Abstract
	}
	if req.Room != nil {
		lecture.Room = *req.Room
	}
	if req.StartsAt != nil {
		lecture.StartsAt = req.StartsAt
	}
	if req.EndsAt != nil {
		lecture.EndsAt = req.EndsAt
	}
	if req.Materials != nil {
		lecture.Materials = *req.Materials
	}

	if lecture.StartsAt != nil && lecture.EndsAt != nil && !lecture.EndsAt.After(*lecture.StartsAt) {
		return nil, ErrActionForbidden
	}

	if err := s.lectureRepo.Update(ctx, lecture); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("update lecture: %w", err)
	}
	return lecture, nil
}

func (s *LectureService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.lectureRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("delete lecture: %w", err)
	}
	return nil
}
