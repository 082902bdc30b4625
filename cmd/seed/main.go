package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/stemsi/resultbook/internal/config"
	"github.com/stemsi/resultbook/internal/database"
	"github.com/stemsi/resultbook/internal/logger"
	"github.com/stemsi/resultbook/internal/model"
	"github.com/stemsi/resultbook/internal/repository"
	"github.com/stemsi/resultbook/internal/service"
)

var demoNames = []string{
	"Aarav Sharma", "Diya Nair", "Ishaan Reddy", "Ananya Iyer", "Vihaan Patel",
	"Saanvi Menon", "Arjun Rao", "Kavya Pillai", "Reyansh Gupta", "Meera Joshi",
	"Aditya Kulkarni", "Anika Das", "Kabir Singh", "Tara Bhat", "Rohan Verma",
	"Nisha Kumar", "Dev Malhotra", "Priya Shetty", "Yash Agarwal", "Riya Chandra",
}

func main() {
	var (
		students  int
		className string
		year      int
		examName  string
	)
	flag.IntVar(&students, "students", 0, "Number of demo students to register (max 20)")
	flag.StringVar(&className, "class", "5A", "Class for demo students")
	flag.IntVar(&year, "year", time.Now().Year(), "Admission year for demo students")
	flag.StringVar(&examName, "exam", "", "Create this PT exam with every standard subject for the class")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// Cached reports of a running server are invalidated when Redis is reachable.
	var (
		rosterNotifier service.RosterNotifier
		reportNotifier service.ReportNotifier
	)
	if rdb, err := database.NewRedisClient(ctx, cfg, log); err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, cached reports are left to expire")
	} else {
		defer rdb.Close()
		reportCache := service.NewRedisReportCache(rdb, cfg.ReportCacheTTL)
		rosterNotifier, reportNotifier = reportCache, reportCache
	}

	subjectService := service.NewSubjectService(repository.NewSubjectRepository(pool), log)
	studentService := service.NewStudentService(repository.NewStudentRepository(pool), rosterNotifier, log)
	examService := service.NewExamService(repository.NewExamRepository(pool), reportNotifier, log)

	// ─── Standard subjects ─────────────────────────────────────────────
	added, err := subjectService.SeedStandard(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed subjects")
	}
	fmt.Printf("Subjects: %d added, %d already present\n", added, len(model.StandardSubjects)-added)

	// ─── Demo students ─────────────────────────────────────────────────
	if students > len(demoNames) {
		students = len(demoNames)
	}
	for i := 0; i < students; i++ {
		st, err := studentService.Register(ctx, model.RegisterStudentRequest{
			Name:          demoNames[i],
			AdmissionYear: &year,
			ClassName:     className,
		})
		if err != nil {
			log.Fatal().Err(err).Str("name", demoNames[i]).Msg("Failed to register student")
		}
		fmt.Printf("Registered %s as %s\n", st.Name, st.AdmissionNo)
	}

	// ─── Demo exam ─────────────────────────────────────────────────────
	if examName == "" {
		return
	}
	exam, err := examService.Create(ctx, model.CreateExamRequest{
		Name:         examName,
		Type:         model.ExamTypePeriodicTest,
		AcademicYear: fmt.Sprintf("%d-%02d", year, (year+1)%100),
		MaxMarks:     50,
	})
	if errors.Is(err, service.ErrExamExists) {
		exam, err = examService.GetByName(ctx, examName)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create exam")
	}

	subjects, err := subjectService.GetAll(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load subjects")
	}
	inputs := make([]model.ExamSubjectInput, 0, len(subjects))
	for _, s := range subjects {
		inputs = append(inputs, model.ExamSubjectInput{SubjectID: s.ID, MaxMarks: exam.MaxMarks})
	}
	configured, err := examService.ConfigureSubjects(ctx, exam.ID, model.ConfigureExamSubjectsRequest{
		ClassName: className,
		Subjects:  inputs,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure exam subjects")
	}
	fmt.Printf("Exam %s configured for %s with %d subjects\n", exam.Name, className, len(configured))
}
