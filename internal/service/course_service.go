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

// CourseService owns the course catalog: paginated search, the cached
// per-major listings, the cached detail documents and the admin CRUD
// with its cascades.
type CourseService struct {
	courseRepo  repository.CourseRepository
	majorRepo   repository.MajorRepository
	teacherRepo repository.TeacherRepository
	lectureRepo repository.LectureRepository
	ratingRepo  repository.RatingRepository
	commentRepo repository.CommentRepository
	rdb         *redis.Client
	cfg         *config.Config
	activity    *ActivityRecorder
	log         zerolog.Logger
}

func NewCourseService(
	courseRepo repository.CourseRepository,
	majorRepo repository.MajorRepository,
	teacherRepo repository.TeacherRepository,
	lectureRepo repository.LectureRepository,
	ratingRepo repository.RatingRepository,
	commentRepo repository.CommentRepository,
	rdb *redis.Client,
	cfg *config.Config,
	activity *ActivityRecorder,
	log zerolog.Logger,
) *CourseService {
	return &CourseService{
		courseRepo:  courseRepo,
		majorRepo:   majorRepo,
		teacherRepo: teacherRepo,
		lectureRepo: lectureRepo,
		ratingRepo:  ratingRepo,
		commentRepo: commentRepo,
		rdb:         rdb,
		cfg:         cfg,
		activity:    activity,
		log:         logger.Component(log, "course_service"),
	}
}

// List is the uncached search endpoint. Filters hit indexed fields, so
// serving it straight from the database is fine.
func (s *CourseService) List(ctx context.Context, opts repository.CourseListOptions) ([]*model.Course, int64, error) {
	return s.courseRepo.List(ctx, opts)
}

// ListByMajor returns the major's whole course list, cache-aside.
func (s *CourseService) ListByMajor(ctx context.Context, majorID primitive.ObjectID) ([]*model.Course, error) {
	if _, err := s.majorRepo.GetByID(ctx, majorID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("major: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("get major: %w", err)
	}

	key := config.CacheKey.MajorCoursesKey(majorID.Hex())
	cached, err := s.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var courses []*model.Course
		if err := json.Unmarshal(cached, &courses); err == nil {
			return courses, nil
		}
		s.rdb.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("Course list cache read failed, serving from database")
	}

	return s.warmMajorCourses(ctx, majorID)
}

// GetDetail serves the composed course document, cache-aside, and
// queues a view event for the activity worker.
func (s *CourseService) GetDetail(ctx context.Context, id primitive.ObjectID) (*model.CourseDetail, error) {
	key := config.CacheKey.CourseDocKey(id.Hex())

	cached, err := s.rdb.Get(ctx, key).Bytes()
	if err == nil {
		detail := &model.CourseDetail{}
		if err := json.Unmarshal(cached, detail); err == nil {
			s.activity.RecordView(ctx, model.SubjectCourse, id.Hex())
			return detail, nil
		}
		s.rdb.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("Course doc cache read failed, serving from database")
	}

	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}

	detail := &model.CourseDetail{Course: course}
	if teacher, err := s.teacherRepo.GetByID(ctx, course.TeacherID); err == nil {
		detail.Teacher = teacher.Ref()
	}

	if payload, err := json.Marshal(detail); err == nil {
		if err := s.rdb.Set(ctx, key, payload, s.cfg.CatalogCacheTTL.Std()).Err(); err != nil {
			s.log.Warn().Err(err).Msg("Course doc cache write failed")
		}
	}

	s.activity.RecordView(ctx, model.SubjectCourse, id.Hex())
	return detail, nil
}

func (s *CourseService) Create(ctx context.Context, req *model.CreateCourseRequest) (*model.Course, error) {
	majorID, err := primitive.ObjectIDFromHex(req.MajorID)
	if err != nil {
		return nil, fmt.Errorf("major: %w", ErrNotFound)
	}
	teacherID, err := primitive.ObjectIDFromHex(req.TeacherID)
	if err != nil {
		return nil, fmt.Errorf("teacher: %w", ErrNotFound)
	}

	if _, err := s.majorRepo.GetByID(ctx, majorID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("major: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("get major: %w", err)
	}
	if _, err := s.teacherRepo.GetByID(ctx, teacherID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("teacher: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("get teacher: %w", err)
	}

	course := &model.Course{
		MajorID:     majorID,
		TeacherID:   teacherID,
		Title:       req.Title,
		Icon:        req.Icon,
		Tags:        req.Tags,
		Description: req.Description,
		Topics:      req.Topics,
	}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}

	s.invalidateMajorCourses(ctx, majorID)
	s.log.Info().Str("course_id", course.ID.Hex()).Str("title", course.Title).Msg("Course created")
	return course, nil
}

func (s *CourseService) Update(ctx context.Context, id primitive.ObjectID, req *model.UpdateCourseRequest) (*model.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}

	previousMajor := course.MajorID

	if req.MajorID != nil {
		majorID, err := primitive.ObjectIDFromHex(*req.MajorID)
		if err != nil {
			return nil, fmt.Errorf("major: %w", ErrNotFound)
		}
		if _, err := s.majorRepo.GetByID(ctx, majorID); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, fmt.Errorf("major: %w", ErrNotFound)
			}
			return nil, fmt.Errorf("get major: %w", err)
		}
		course.MajorID = majorID
	}
	if req.TeacherID != nil {
		teacherID, err := primitive.ObjectIDFromHex(*req.TeacherID)
		if err != nil {
			return nil, fmt.Errorf("teacher: %w", ErrNotFound)
		}
		if _, err := s.teacherRepo.GetByID(ctx, teacherID); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, fmt.Errorf("teacher: %w", ErrNotFound)
			}
			return nil, fmt.Errorf("get teacher: %w", err)
		}
		course.TeacherID = teacherID
	}
	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Icon != nil {
		course.Icon = *req.Icon
	}
	if req.Tags != nil {
		course.Tags = *req.Tags
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Topics != nil {
		course.Topics = *req.Topics
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}

	s.invalidateCourseDoc(ctx, id)
	s.invalidateMajorCourses(ctx, previousMajor)
	if course.MajorID != previousMajor {
		s.invalidateMajorCourses(ctx, course.MajorID)
	}
	return course, nil
}

// Delete removes the course together with everything hanging off it:
// lectures, ratings and the comment threads.
func (s *CourseService) Delete(ctx context.Context, id primitive.ObjectID) error {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("get course: %w", err)
	}

	lectures, err := s.lectureRepo.DeleteByCourse(ctx, id)
	if err != nil {
		return fmt.Errorf("delete lectures: %w", err)
	}
	ratings, err := s.ratingRepo.DeleteBySubject(ctx, model.SubjectCourse, id)
	if err != nil {
		return fmt.Errorf("delete ratings: %w", err)
	}
	comments, err := s.commentRepo.DeleteByCourse(ctx, id)
	if err != nil {
		return fmt.Errorf("delete comments: %w", err)
	}

	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}

	s.invalidateCourseDoc(ctx, id)
	s.invalidateMajorCourses(ctx, course.MajorID)
	s.rdb.Del(ctx, config.CacheKey.RatingSummaryKey(string(model.SubjectCourse), id.Hex()))

	s.log.Info().
		Str("course_id", id.Hex()).
		Int64("lectures", lectures).
		Int64("ratings", ratings).
		Int64("comments", comments).
		Msg("Course deleted with dependents")
	return nil
}

// PrewarmCourseLists loads every major's course list into Redis on
// startup, so the first wave of catalog traffic never stampedes the
// database.
func (s *CourseService) PrewarmCourseLists(ctx context.Context) error {
	majors, err := s.majorRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("list majors: %w", err)
	}
	if len(majors) == 0 {
		s.log.Info().Msg("No majors to prewarm")
		return nil
	}

	warmed := 0
	for _, major := range majors {
		if _, err := s.warmMajorCourses(ctx, major.ID); err != nil {
			s.log.Warn().
				Err(err).
				Str("major_id", major.ID.Hex()).
				Msg("Failed to warm course list, skipping")
			continue
		}
		warmed++
	}

	s.log.Info().Int("warmed", warmed).Int("total", len(majors)).Msg("Course list prewarming complete")
	return nil
}

func (s *CourseService) warmMajorCourses(ctx context.Context, majorID primitive.ObjectID) ([]*model.Course, error) {
	courses, err := s.courseRepo.ListAllByMajor(ctx, majorID)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	if payload, err := json.Marshal(courses); err == nil {
		key := config.CacheKey.MajorCoursesKey(majorID.Hex())
		if err := s.rdb.Set(ctx, key, payload, s.cfg.CatalogCacheTTL.Std()).Err(); err != nil {
			s.log.Warn().Err(err).Msg("Course list cache write failed")
		}
	}
	return courses, nil
}

func (s *CourseService) invalidateMajorCourses(ctx context.Context, majorID primitive.ObjectID) {
	if err := s.rdb.Del(ctx, config.CacheKey.MajorCoursesKey(majorID.Hex())).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Course list cache invalidation failed")
	}
}

func (s *CourseService) invalidateCourseDoc(ctx context.Context, id primitive.ObjectID) {
	if err := s.rdb.Del(ctx, config.CacheKey.CourseDocKey(id.Hex())).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Course doc cache invalidation failed")
	}
}
