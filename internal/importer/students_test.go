package importer

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/widya-labs/pustaka-api/internal/models"
)

type fakeUserRepo struct {
	created   []models.User
	createErr map[string]error
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if err := f.createErr[user.NIS]; err != nil {
		return err
	}
	user.ID = uint(len(f.created) + 1)
	f.created = append(f.created, *user)
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uint) (models.User, error) {
	return models.User{}, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByNIS(ctx context.Context, nis string) (models.User, error) {
	for _, user := range f.created {
		if user.NIS == nis {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) ExistsByNIS(ctx context.Context, nis string) (bool, error) {
	_, err := f.GetByNIS(ctx, nis)
	return err == nil, nil
}

func (f *fakeUserRepo) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	return f.created, nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	return nil
}

func buildWorkbook(t *testing.T, rows [][]string) *bytes.Buffer {
	t.Helper()
	workbook := excelize.NewFile()
	sheet := workbook.GetSheetName(0)

	all := append([][]string{{"NIS", "Name", "Gender", "Class"}}, rows...)
	for idx, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, idx+1)
		require.NoError(t, err)
		require.NoError(t, workbook.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, workbook.Write(&buf))
	return &buf
}

func TestStudentImportCreatesAccounts(t *testing.T) {
	repo := &fakeUserRepo{}
	imp := NewStudentImporter(repo, zerolog.Nop())

	workbook := buildWorkbook(t, [][]string{
		{"2514440.0", "Siti Rahma", "P", "8A"},
		{"2514441", "Budi Santoso", "L", "8B"},
	})

	result, err := imp.Import(context.Background(), workbook)
	require.NoError(t, err)
	require.Equal(t, 2, result.Created)
	require.Equal(t, 0, result.Skipped)
	require.Empty(t, result.Errors)

	// Numeric-formatted cells lose their ".0" suffix.
	require.Equal(t, "2514440", repo.created[0].NIS)
	require.Equal(t, "Siti Rahma", repo.created[0].Name)
	require.Equal(t, models.RoleStudent, repo.created[0].Role)
	require.Equal(t, "P", repo.created[0].Gender)
	require.Equal(t, "8A", repo.created[0].Class)

	// The NIS is the initial password.
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.created[0].PasswordHash), []byte("2514440")))
}

func TestStudentImportSkipsDuplicatesAndBlanks(t *testing.T) {
	repo := &fakeUserRepo{created: []models.User{{ID: 1, NIS: "2514440", Name: "Existing", Role: models.RoleStudent}}}
	imp := NewStudentImporter(repo, zerolog.Nop())

	workbook := buildWorkbook(t, [][]string{
		{"2514440", "Siti Rahma", "P", "8A"},
		{"", "", "", ""},
		{"2514442", "Andi Wijaya", "L", "8C"},
		{"2514442", "Andi Duplicate", "L", "8C"},
	})

	result, err := imp.Import(context.Background(), workbook)
	require.NoError(t, err)
	require.Equal(t, 1, result.Created)
	require.Equal(t, 2, result.Skipped)
	require.Empty(t, result.Errors)
	require.Equal(t, "Andi Wijaya", repo.created[1].Name)
}

func TestStudentImportCollectsRowErrors(t *testing.T) {
	repo := &fakeUserRepo{createErr: map[string]error{"2514443": errors.New("disk full")}}
	imp := NewStudentImporter(repo, zerolog.Nop())

	workbook := buildWorkbook(t, [][]string{
		{"2514443", "Failing Row", "P", "8A"},
		{"", "Missing NIS", "L", "8B"},
		{"2514445", "Working Row", "L", "8B"},
	})

	result, err := imp.Import(context.Background(), workbook)
	require.NoError(t, err)
	require.Equal(t, 1, result.Created)
	require.Len(t, result.Errors, 2)
	require.Equal(t, 2, result.Errors[0].Row)
	require.Equal(t, "disk full", result.Errors[0].Reason)
	require.Equal(t, "missing NIS or name", result.Errors[1].Reason)
}

func TestCleanNIS(t *testing.T) {
	cases := map[string]string{
		"2514440.0":  "2514440",
		"2514440.00": "2514440",
		"2514440":    "2514440",
		" 2514440 ":  "2514440",
		"25.5":       "25.5",
	}
	for input, expected := range cases {
		require.Equal(t, expected, cleanNIS(input), "input %q", input)
	}
}
