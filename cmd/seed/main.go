// Command seed sets up the database schema and optionally loads a demo
// course, so the merge and validation endpoints can be exercised without a
// generation pipeline in front of them.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"coursecraft/internal/config"
	"coursecraft/internal/domain/models/course"
	"coursecraft/internal/domain/services"
	"coursecraft/internal/repository/postgres"
	courseservice "coursecraft/internal/service/course"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before setup (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed a demo course")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	// SAFETY: never drop tables in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("BLOCKED: cannot run --drop-tables in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	log.Println("Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("Schema ready")

	if *schemaOnly {
		return
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	courseRepo := postgres.NewCourseRepository(repoConfig)
	reportRepo := postgres.NewReportRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)
	svc := courseservice.NewCourseService(courseRepo, reportRepo, txManager, nil, logger)

	created, err := svc.CreateCourse(ctx, demoCourse())
	if err != nil {
		log.Fatalf("Failed to seed demo course: %v", err)
	}
	log.Printf("Seeded demo course %s (%d lessons)", created.ID, len(created.Lessons))
}

// runSchema creates tables if they don't exist
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	if _, err := pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`); err != nil {
		return err
	}

	createCourses := `
		CREATE TABLE IF NOT EXISTS ` + tables.Courses + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			lessons JSONB NOT NULL DEFAULT '[]',
			outline JSONB,
			source_files JSONB NOT NULL DEFAULT '[]',
			version INTEGER NOT NULL DEFAULT 1,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createCourses); err != nil {
		return err
	}

	createRuns := `
		CREATE TABLE IF NOT EXISTS ` + tables.ValidationReports + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			course_id UUID NOT NULL REFERENCES ` + tables.Courses + `(id) ON DELETE CASCADE,
			mode TEXT NOT NULL,
			overall_severity TEXT NOT NULL,
			summary TEXT NOT NULL DEFAULT '',
			reports JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createRuns); err != nil {
		return err
	}

	createRunsIndex := `
		CREATE INDEX IF NOT EXISTS idx_` + tables.ValidationReports + `_course_created
		ON ` + tables.ValidationReports + ` (course_id, created_at DESC)
	`
	_, err := pool.Exec(ctx, createRunsIndex)
	return err
}

func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	for _, table := range []string{tables.ValidationReports, tables.Courses} {
		if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
			return err
		}
	}
	return nil
}

func demoCourse() *services.CreateCourseRequest {
	logline := func(s string) *string { return &s }
	return &services.CreateCourseRequest{
		Title:       "Introduction to Go",
		Description: "A short course on writing practical Go programs.",
		Lessons: []course.Lesson{
			{
				ID:         "lesson-1",
				Order:      0,
				Title:      "Getting Started",
				Content:    "Install the toolchain, write your first program, and learn how packages fit together.",
				Objectives: []string{"Install Go", "Run a program"},
				Logline:    logline("From zero to a running program."),
			},
			{
				ID:         "lesson-2",
				Order:      1,
				Title:      "Types and Functions",
				Content:    "Structs, methods, and the error-return convention that shapes every Go API.",
				Objectives: []string{"Define structs", "Return errors"},
				Logline:    logline("The building blocks of every Go package."),
			},
		},
		Outline: []course.OutlineItem{
			{LessonID: "lesson-1", Summary: "Toolchain setup and a first program."},
			{LessonID: "lesson-2", Summary: "Core language constructs."},
		},
	}
}
