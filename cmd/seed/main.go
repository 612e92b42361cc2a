package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/librekpi/backend/internal/config"
	"github.com/librekpi/backend/internal/database"
	"github.com/librekpi/backend/internal/logger"
	"github.com/librekpi/backend/internal/model"
	"github.com/librekpi/backend/internal/repository"
)

// Seeds a small demo catalog so a fresh install has something to
// browse. Safe to re-run: existing majors are detected by code and
// their courses are left untouched.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		return
	}
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := database.NewMongoDatabase(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer db.Client().Disconnect(context.Background())

	majorRepo := repository.NewMajorRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	lectureRepo := repository.NewLectureRepository(db)

	fmt.Println("=== Seeding Demo Catalog ===")

	softwareEng, created, err := ensureMajor(ctx, majorRepo, &model.Major{
		Code:        "121",
		Name:        "Software Engineering",
		Faculty:     "Faculty of Informatics and Computer Science",
		Description: "Design, construction and maintenance of software systems.",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed major")
	}
	if !created {
		fmt.Println("Catalog already seeded, nothing to do")
		return
	}

	appliedMath, _, err := ensureMajor(ctx, majorRepo, &model.Major{
		Code:        "113",
		Name:        "Applied Mathematics",
		Faculty:     "Faculty of Applied Mathematics",
		Description: "Mathematical modelling, numerical methods and data analysis.",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed major")
	}

	teachers := []*model.Teacher{
		{
			FirstName: "Taras",
			LastName:  "Kovalenko",
			Faculty:   "Faculty of Informatics and Computer Science",
			Degree:    "PhD",
			Position:  "Associate Professor",
			Bio:       "Teaches systems programming and operating systems.",
		},
		{
			FirstName: "Olena",
			LastName:  "Shevchenko",
			Faculty:   "Faculty of Applied Mathematics",
			Degree:    "DSc",
			Position:  "Professor",
			Bio:       "Research interests include numerical analysis and optimization.",
		},
	}
	for _, teacher := range teachers {
		if err := teacherRepo.Create(ctx, teacher); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed teacher")
		}
	}

	courses := []*model.Course{
		{
			MajorID:     softwareEng.ID,
			TeacherID:   teachers[0].ID,
			Title:       "Operating Systems",
			Tags:        []string{"systems", "c", "mandatory"},
			Description: "Processes, scheduling, memory management and file systems.",
			Topics:      []string{"Processes and threads", "Scheduling", "Virtual memory", "File systems"},
		},
		{
			MajorID:     softwareEng.ID,
			TeacherID:   teachers[0].ID,
			Title:       "Databases",
			Tags:        []string{"sql", "mandatory"},
			Description: "Relational model, SQL, transactions and indexing.",
			Topics:      []string{"Relational algebra", "SQL", "Transactions", "Indexes"},
		},
		{
			MajorID:     appliedMath.ID,
			TeacherID:   teachers[1].ID,
			Title:       "Numerical Methods",
			Tags:        []string{"math", "mandatory"},
			Description: "Approximation, integration and solving systems numerically.",
			Topics:      []string{"Interpolation", "Quadrature", "Linear systems", "ODE solvers"},
		},
	}
	for _, course := range courses {
		if err := courseRepo.Create(ctx, course); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed course")
		}
	}

	start := time.Date(2026, 9, 1, 8, 30, 0, 0, time.UTC)
	for i, title := range []string{"Introduction and course overview", "Processes and the process API", "Scheduling policies"} {
		startsAt := start.AddDate(0, 0, 7*i)
		endsAt := startsAt.Add(95 * time.Minute)
		lecture := &model.Lecture{
			CourseID: courses[0].ID,
			Number:   i + 1,
			Title:    title,
			Room:     "7-505",
			StartsAt: &startsAt,
			EndsAt:   &endsAt,
		}
		if err := lectureRepo.Create(ctx, lecture); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed lecture")
		}
	}

	fmt.Printf("Seeded %d majors, %d teachers, %d courses, 3 lectures\n", 2, len(teachers), len(courses))
}

// ensureMajor creates the major unless one with the same code exists.
// The second return value reports whether a create happened.
func ensureMajor(ctx context.Context, repo repository.MajorRepository, major *model.Major) (*model.Major, bool, error) {
	existing, err := repo.GetByCode(ctx, major.Code)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, err
	}
	if err := repo.Create(ctx, major); err != nil {
		return nil, false, err
	}
	return major, true, nil
}
