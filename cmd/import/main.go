package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/rs/zerolog"

	"github.com/widya-labs/pustaka-api/internal/config"
	"github.com/widya-labs/pustaka-api/internal/database"
	"github.com/widya-labs/pustaka-api/internal/importer"
	"github.com/widya-labs/pustaka-api/internal/models"
	"github.com/widya-labs/pustaka-api/internal/repository"
)

func main() {
	path := flag.String("file", "", "path to the student workbook (.xlsx)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	target := *path
	if target == "" {
		target = cfg.StudentImportFile
	}
	if target == "" {
		log.Fatal("no workbook given: pass -file or set PUSTAKA_STUDENT_IMPORT_FILE")
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	file, err := os.Open(target)
	if err != nil {
		log.Fatalf("failed to open workbook: %v", err)
	}
	defer file.Close()

	students := importer.NewStudentImporter(repository.NewUserRepository(db), logger)

	result, err := students.Import(context.Background(), file)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	for _, rowErr := range result.Errors {
		logger.Warn().Int("row", rowErr.Row).Str("reason", rowErr.Reason).Msg("row skipped")
	}

	logger.Info().
		Int("created", result.Created).
		Int("skipped", result.Skipped).
		Int("errors", len(result.Errors)).
		Msg("import complete")
}
