package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/horarios-api/internal/dto"
	"github.com/noah-isme/horarios-api/internal/models"
	appErrors "github.com/noah-isme/horarios-api/pkg/errors"
	"github.com/noah-isme/horarios-api/pkg/export"
)

type exportPriorityReader interface {
	ListByProfessor(ctx context.Context, professorID string) (map[int64]int, error)
	ListForExport(ctx context.Context) ([]models.PriorityExportRow, error)
}

type exportScheduleLookup interface {
	GetProfessor(ctx context.Context, id string) (*models.Professor, error)
	ListScheduleBlocks(ctx context.Context, shift *string) ([]dto.ScheduleBlockView, error)
	TimeRanges(ctx context.Context) ([]models.TimeRange, error)
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders stored preferences as CSV or PDF tables.
type ExportService struct {
	priorities exportPriorityReader
	schedule   exportScheduleLookup
	audit      *AuditService
	settings   ScheduleSettings
	logger     *zap.Logger
	now        func() time.Time
}

// NewExportService constructs the export service.
func NewExportService(priorities exportPriorityReader, schedule exportScheduleLookup, audit *AuditService, settings ScheduleSettings, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{priorities: priorities, schedule: schedule, audit: audit, settings: settings, logger: logger, now: time.Now}
}

// ProfessorGrid renders one professor's preferences with a row per time
// range and a column per configured day. Slots without a block stay empty.
func (s *ExportService) ProfessorGrid(ctx context.Context, professorID, rawFormat, actorID string, meta RequestMeta) (*ExportFile, error) {
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	professor, err := s.schedule.GetProfessor(ctx, professorID)
	if err != nil {
		return nil, err
	}
	ranges, err := s.schedule.TimeRanges(ctx)
	if err != nil {
		return nil, err
	}
	blocks, err := s.schedule.ListScheduleBlocks(ctx, nil)
	if err != nil {
		return nil, err
	}
	values, err := s.priorities.ListByProfessor(ctx, professorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load preferences")
	}

	type slot struct{ day, span string }
	cells := make(map[slot]string, len(blocks))
	for _, block := range blocks {
		cells[slot{block.Day, block.StartTime + "-" + block.EndTime}] = strconv.Itoa(values[block.ID])
	}

	dataset := export.Dataset{
		Title:   fmt.Sprintf("Preferencias horarias - %s", professor.FullName),
		Headers: append([]string{"Horario"}, s.settings.Days...),
	}
	for _, r := range ranges {
		span := r.StartTime + "-" + r.EndTime
		row := []string{span}
		for _, day := range s.settings.Days {
			row = append(row, cells[slot{day, span}])
		}
		dataset.AddRow(row...)
	}

	body, err := export.Render(format, dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	s.audit.Record(ctx, actorID, models.AuditActionPreferencesExport, "preferences", professorID, map[string]string{"format": string(format)}, meta)

	return &ExportFile{
		Filename:    fmt.Sprintf("preferencias_%s.%s", professor.ShortName, format),
		ContentType: format.ContentType(),
		Body:        body,
	}, nil
}

// AllPreferences renders every stored priority as a flat table.
func (s *ExportService) AllPreferences(ctx context.Context, rawFormat, actorID string, meta RequestMeta) (*ExportFile, error) {
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	rows, err := s.priorities.ListForExport(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load preferences")
	}

	dataset := export.Dataset{
		Title:   "Preferencias horarias",
		Headers: []string{"Cedula", "Profesor", "Bloque", "Dia", "Inicio", "Fin", "Prioridad"},
	}
	for _, row := range rows {
		start, err := FormatClock(row.StartTime)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "invalid block time")
		}
		end, err := FormatClock(row.EndTime)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "invalid block time")
		}
		dataset.AddRow(row.ProfessorID, row.ShortName, strconv.FormatInt(row.BlockID, 10), row.Day, start, end, strconv.Itoa(row.Value))
	}

	body, err := export.Render(format, dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	s.audit.Record(ctx, actorID, models.AuditActionPreferencesExport, "preferences", "", map[string]interface{}{"format": string(format), "rows": len(rows)}, meta)

	return &ExportFile{
		Filename:    fmt.Sprintf("preferencias_%s.%s", s.now().UTC().Format("20060102"), format),
		ContentType: format.ContentType(),
		Body:        body,
	}, nil
}
