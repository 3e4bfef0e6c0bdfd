package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/horarios-api/internal/models"
	"github.com/noah-isme/horarios-api/internal/repository"
	"github.com/noah-isme/horarios-api/internal/service"
	"github.com/noah-isme/horarios-api/pkg/cache"
	"github.com/noah-isme/horarios-api/pkg/database"
)

func seedCmd() *cobra.Command {
	var (
		adminEmail    string
		adminPassword string
		professorsCSV string
		skipSample    bool
		migrate       bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load sample reference data and an administrator account",
		Long: `Seed upserts the sample catalog (two professors, MAT101 and FIS101,
the Mañana and Tarde shifts and ten weekday blocks) plus an administrator
persona with a bcrypt password. Re-running it is safe.

--professors imports a CSV with the columns Cedula,Nombre,Mail.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.closer()

			if migrate {
				if err := database.Migrate(cmd.Context(), e.db); err != nil {
					return err
				}
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash admin password: %w", err)
			}

			var data repository.SeedData
			if !skipSample {
				data = sampleData()
			}
			data.Persons = append(data.Persons, adminPersona(adminEmail, string(hash)))

			if professorsCSV != "" {
				f, err := os.Open(professorsCSV)
				if err != nil {
					return fmt.Errorf("open professors file: %w", err)
				}
				defer f.Close()
				persons, professors, err := parseProfessorsCSV(f)
				if err != nil {
					return err
				}
				data.Persons = append(data.Persons, persons...)
				data.Professors = append(data.Professors, professors...)
			}

			if err := repository.NewSeedRepository(e.db).Seed(cmd.Context(), data); err != nil {
				return err
			}
			if err := invalidateScheduleCache(cmd.Context(), e); err != nil {
				e.log.Warn("schedule cache not invalidated", zap.Error(err))
			}
			e.log.Info("seed complete",
				zap.Int("persons", len(data.Persons)),
				zap.Int("professors", len(data.Professors)),
				zap.Int("blocks", len(data.Blocks)),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&adminEmail, "admin-email", "admin@um.edu.uy", "Administrator email")
	cmd.Flags().StringVar(&adminPassword, "admin-password", "admin123", "Administrator password")
	cmd.Flags().StringVar(&professorsCSV, "professors", "", "CSV file of professors to import")
	cmd.Flags().BoolVar(&skipSample, "no-sample", false, "Skip the sample catalog")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply the schema first")
	return cmd
}

// invalidateScheduleCache drops block listings the API cached before the
// seed rewrote the catalogue. Without Redis there is nothing to drop.
func invalidateScheduleCache(ctx context.Context, e *env) error {
	client, err := cache.NewRedis(ctx, e.cfg.Redis)
	if err != nil {
		return err
	}
	if client == nil {
		return nil
	}
	defer client.Close()

	cacheSvc := service.NewCacheService(repository.NewCacheRepository(client, repository.CacheKeyPrefix), nil, e.cfg.Schedule.CacheTTL, e.log, true)
	assignments := service.NewAssignmentService(repository.NewProfessorRepository(e.db), repository.NewScheduleRepository(e.db), repository.NewCatalogRepository(e.db), cacheSvc, nil, service.ScheduleSettings{Days: e.cfg.Schedule.Days}, e.log)
	assignments.InvalidateBlocks(ctx)
	return nil
}

func strPtr(s string) *string {
	return &s
}

// sampleData mirrors the development fixture professors first used the form with.
func sampleData() repository.SeedData {
	ranges := []models.TimeRange{
		{StartTime: "08:00", EndTime: "10:00"},
		{StartTime: "10:00", EndTime: "12:00"},
	}

	var blocks []models.ScheduleBlock
	id := int64(1)
	for _, day := range []string{"lun", "mar", "mie", "jue", "vie"} {
		for _, r := range ranges {
			blocks = append(blocks, models.ScheduleBlock{ID: id, Day: day, StartTime: r.StartTime, EndTime: r.EndTime})
			id++
		}
	}

	return repository.SeedData{
		Persons: []models.Person{
			{ID: "1001", Name: "Juan", Email: strPtr("test@test.com"), Role: models.RoleProfessor},
			{ID: "1002", Name: "Ana", Role: models.RoleProfessor},
		},
		Professors: []models.Professor{
			{ID: "1001", ShortName: "jp", FullName: "Juan Pérez"},
			{ID: "1002", ShortName: "am", FullName: "Ana Gómez"},
		},
		Subjects: []models.Subject{
			{Code: "MAT101", ShortName: "MAT101", FullName: strPtr("Matemática Básica")},
			{Code: "FIS101", ShortName: "FIS101", FullName: strPtr("Física General")},
		},
		Shifts:     []models.Shift{{Name: "Mañana"}, {Name: "Tarde"}},
		TimeRanges: ranges,
		Blocks:     blocks,
		ShiftTimeRanges: []models.ShiftTimeRange{
			{Shift: "Mañana", StartTime: "08:00", EndTime: "10:00"},
			{Shift: "Tarde", StartTime: "10:00", EndTime: "12:00"},
		},
		Eligibility: []models.TeachingEligibility{
			{ProfessorID: "1001", SubjectCode: "MAT101", Shift: "Mañana", MaxGroups: 2},
			{ProfessorID: "1001", SubjectCode: "FIS101", Shift: "Tarde", MaxGroups: 1},
		},
	}
}

func adminPersona(email, passwordHash string) models.Person {
	return models.Person{
		ID:           "admin",
		Name:         "Admin",
		Email:        strPtr(email),
		Role:         models.RoleAdmin,
		PasswordHash: strPtr(passwordHash),
	}
}

// parseProfessorsCSV reads Cedula,Nombre,Mail rows. The short name is the
// lowercase initials of the name.
func parseProfessorsCSV(r io.Reader) ([]models.Person, []models.Professor, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	idCol, okID := cols["cedula"]
	nameCol, okName := cols["nombre"]
	if !okID || !okName {
		return nil, nil, errors.New("professors file needs Cedula and Nombre columns")
	}
	mailCol, hasMail := cols["mail"]

	var (
		persons    []models.Person
		professors []models.Professor
		used       = map[string]int{}
	)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", line, err)
		}
		id := field(record, idCol)
		name := field(record, nameCol)
		if id == "" || name == "" {
			return nil, nil, fmt.Errorf("line %d: cedula and nombre are required", line)
		}

		person := models.Person{ID: id, Name: name, Role: models.RoleProfessor}
		if hasMail {
			if mail := field(record, mailCol); mail != "" {
				person.Email = strPtr(mail)
			}
		}
		short := initials(name)
		used[short]++
		if n := used[short]; n > 1 {
			short = fmt.Sprintf("%s%d", short, n)
		}

		persons = append(persons, person)
		professors = append(professors, models.Professor{ID: id, ShortName: short, FullName: name})
	}
	return persons, professors, nil
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			b.WriteRune(unicode.ToLower(r))
			break
		}
	}
	return b.String()
}
