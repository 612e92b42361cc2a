package service

import (
	"context"
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

type TeacherService struct {
	teacherRepo repository.TeacherRepository
	courseRepo  repository.CourseRepository
	ratingRepo  repository.RatingRepository
	rdb         *redis.Client
	activity    *ActivityRecorder
	log         zerolog.Logger
}

func NewTeacherService(
	teacherRepo repository.TeacherRepository,
	courseRepo repository.CourseRepository,
	ratingRepo repository.RatingRepository,
	rdb *redis.Client,
	activity *ActivityRecorder,
	log zerolog.Logger,
) *TeacherService {
	return &TeacherService{
		teacherRepo: teacherRepo,
		courseRepo:  courseRepo,
		ratingRepo:  ratingRepo,
		rdb:         rdb,
		activity:    activity,
		log:         logger.Component(log, "teacher_service"),
	}
}

func (s *TeacherService) List(ctx context.Context, opts repository.TeacherListOptions) ([]*model.Teacher, int64, error) {
	return s.teacherRepo.List(ctx, opts)
}

func (s *TeacherService) Get(ctx context.Context, id primitive.ObjectID) (*model.Teacher, error) {
	teacher, err := s.teacherRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get teacher: %w", err)
	}

	s.activity.RecordView(ctx, model.SubjectTeacher, id.Hex())
	return teacher, nil
}

func (s *TeacherService) Create(ctx context.Context, req *model.CreateTeacherRequest) (*model.Teacher, error) {
	teacher := &model.Teacher{
		FirstName:    req.FirstName,
		MiddleName:   req.MiddleName,
		LastName:     req.LastName,
		Photo:        req.Photo,
		Faculty:      req.Faculty,
		Departments:  req.Departments,
		Bio:          req.Bio,
		Degree:       req.Degree,
		Position:     req.Position,
		Publications: req.Publications,
		Contacts:     req.Contacts,
	}
	if err := s.teacherRepo.Create(ctx, teacher); err != nil {
		return nil, fmt.Errorf("create teacher: %w", err)
	}

	s.log.Info().Str("teacher_id", teacher.ID.Hex()).Str("name", teacher.FullName()).Msg("Teacher created")
	return teacher, nil
}

func (s *TeacherService) Update(ctx context.Context, id primitive.ObjectID, req *model.UpdateTeacherRequest) (*model.Teacher, error) {
	teacher, err := s.teacherRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get teacher: %w", err)
	}

	if req.FirstName != nil {
		teacher.FirstName = *req.FirstName
	}
	if req.MiddleName != nil {
		teacher.MiddleName = *req.MiddleName
	}
	if req.LastName != nil {
		teacher.LastName = *req.LastName
	}
	if req.Photo != nil {
		teacher.Photo = *req.Photo
	}
	if req.Faculty != nil {
		teacher.Faculty = *req.Faculty
	}
	if req.Departments != nil {
		teacher.Departments = *req.Departments
	}
	if req.Bio != nil {
		teacher.Bio = *req.Bio
	}
	if req.Degree != nil {
		teacher.Degree = *req.Degree
	}
	if req.Position != nil {
		teacher.Position = *req.Position
	}
	if req.Publications != nil {
		teacher.Publications = *req.Publications
	}
	if req.Contacts != nil {
		teacher.Contacts = *req.Contacts
	}

	if err := s.teacherRepo.Update(ctx, teacher); err != nil {
		return nil, fmt.Errorf("update teacher: %w", err)
	}

	// Course detail pages embed the teacher's name; let the TTL expire
	// those rather than chasing every course of the teacher here.
	return teacher, nil
}

// Delete refuses while the teacher still owns courses. Ratings for the
// profile go with it.
func (s *TeacherService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.teacherRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("get teacher: %w", err)
	}

	count, err := s.courseRepo.CountByTeacher(ctx, id)
	if err != nil {
		return fmt.Errorf("count courses: %w", err)
	}
	if count > 0 {
		return ErrDependencyExists
	}

	ratings, err := s.ratingRepo.DeleteBySubject(ctx, model.SubjectTeacher, id)
	if err != nil {
		return fmt.Errorf("delete ratings: %w", err)
	}

	if err := s.teacherRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete teacher: %w", err)
	}

	s.rdb.Del(ctx, config.CacheKey.RatingSummaryKey(string(model.SubjectTeacher), id.Hex()))
	s.log.Info().Str("teacher_id", id.Hex()).Int64("ratings", ratings).Msg("Teacher deleted")
	return nil
}
