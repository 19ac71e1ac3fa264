package importer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/widya-labs/pustaka-api/internal/models"
	"github.com/widya-labs/pustaka-api/internal/repository"
)

// Result summarises a completed import run.
type Result struct {
	Created int
	Skipped int
	Errors  []RowError
}

// RowError records why a spreadsheet row was not imported.
type RowError struct {
	Row    int
	Reason string
}

// StudentImporter loads student accounts from an Excel workbook. The
// expected columns are NIS, Name, Gender and Class, with a header row.
type StudentImporter struct {
	users  repository.UserRepository
	logger zerolog.Logger
}

// NewStudentImporter constructs a StudentImporter.
func NewStudentImporter(users repository.UserRepository, logger zerolog.Logger) *StudentImporter {
	return &StudentImporter{
		users:  users,
		logger: logger.With().Str("component", "student_importer").Logger(),
	}
}

// Import reads the workbook's first sheet and creates one student per row.
// Row-level problems are collected rather than aborting the run; the
// returned error covers only workbook-level failures.
func (i *StudentImporter) Import(ctx context.Context, reader io.Reader) (Result, error) {
	workbook, err := excelize.OpenReader(reader)
	if err != nil {
		return Result{}, fmt.Errorf("open workbook: %w", err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return Result{}, fmt.Errorf("workbook has no sheets")
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return Result{}, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	var result Result
	seen := make(map[string]bool)

	for idx, row := range rows {
		if idx == 0 {
			continue // header
		}
		rowNum := idx + 1

		nis := cleanNIS(cell(row, 0))
		name := strings.TrimSpace(cell(row, 1))
		if nis == "" && name == "" {
			continue
		}
		if nis == "" || name == "" {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Reason: "missing NIS or name"})
			continue
		}
		if seen[nis] {
			result.Skipped++
			continue
		}
		seen[nis] = true

		exists, err := i.users.ExistsByNIS(ctx, nis)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Reason: err.Error()})
			continue
		}
		if exists {
			result.Skipped++
			continue
		}

		// The NIS doubles as the initial password; students change it
		// after their first login.
		hash, err := bcrypt.GenerateFromPassword([]byte(nis), bcrypt.DefaultCost)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Reason: err.Error()})
			continue
		}

		student := models.User{
			NIS:          nis,
			Name:         name,
			Role:         models.RoleStudent,
			Gender:       normalizeGender(cell(row, 2)),
			Class:        strings.TrimSpace(cell(row, 3)),
			PasswordHash: string(hash),
		}

		if err := i.users.Create(ctx, &student); err != nil {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Reason: err.Error()})
			continue
		}

		result.Created++
	}

	i.logger.Info().
		Int("created", result.Created).
		Int("skipped", result.Skipped).
		Int("errors", len(result.Errors)).
		Msg("student import finished")

	return result, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

// cleanNIS normalises a NIS cell. Spreadsheets exported with numeric
// columns render identifiers like "2514440.0"; the fractional suffix
// is stripped.
func cleanNIS(raw string) string {
	nis := strings.TrimSpace(raw)
	if dot := strings.Index(nis, "."); dot != -1 {
		trailing := nis[dot+1:]
		if strings.Trim(trailing, "0") == "" {
			nis = nis[:dot]
		}
	}
	return nis
}

func normalizeGender(raw string) string {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "L", "M":
		return "L"
	case "P", "F":
		return "P"
	default:
		return ""
	}
}
