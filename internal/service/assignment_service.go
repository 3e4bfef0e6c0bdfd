package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/horarios-api/internal/dto"
	"github.com/noah-isme/horarios-api/internal/models"
	appErrors "github.com/noah-isme/horarios-api/pkg/errors"
)

type professorReader interface {
	FindByID(ctx context.Context, id string) (*models.Professor, error)
}

type scheduleReader interface {
	ListBlocks(ctx context.Context, shift *string) ([]models.ScheduleBlock, error)
	ListTimeRanges(ctx context.Context) ([]models.TimeRange, error)
}

type catalogReader interface {
	ListSubjects(ctx context.Context) ([]models.Subject, error)
	ListShifts(ctx context.Context) ([]models.Shift, error)
	ListEligibility(ctx context.Context, professorID string) ([]models.EligibleSubject, error)
}

// ScheduleSettings is the weekday ordering loaded once at start.
type ScheduleSettings struct {
	Days        []string
	PriorityMax int
	CacheTTL    time.Duration
}

const blockCachePrefix = "blocks:"

// AssignmentService answers the read-only lookups that populate the form.
type AssignmentService struct {
	professors professorReader
	schedule   scheduleReader
	catalog    catalogReader
	cache      *CacheService
	metrics    *MetricsService
	settings   ScheduleSettings
	dayRank    map[string]int
	logger     *zap.Logger
}

// NewAssignmentService builds the lookup service. settings.Days fixes the
// weekday order used when sorting blocks.
func NewAssignmentService(professors professorReader, schedule scheduleReader, catalog catalogReader, cache *CacheService, metrics *MetricsService, settings ScheduleSettings, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	rank := make(map[string]int, len(settings.Days))
	for i, day := range settings.Days {
		rank[day] = i
	}
	return &AssignmentService{
		professors: professors,
		schedule:   schedule,
		catalog:    catalog,
		cache:      cache,
		metrics:    metrics,
		settings:   settings,
		dayRank:    rank,
		logger:     logger,
	}
}

// GetProfessor returns the professor or UNKNOWN_PROFESSOR.
func (s *AssignmentService) GetProfessor(ctx context.Context, id string) (*models.Professor, error) {
	professor, err := s.professors.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrUnknownProfessor
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load professor")
	}
	return professor, nil
}

// ResolveTeachingAssignments returns the distinct subjects and shifts the
// professor is eligible for, in first-seen order.
func (s *AssignmentService) ResolveTeachingAssignments(ctx context.Context, professorID string) (*dto.TeachingAssignments, error) {
	if _, err := s.GetProfessor(ctx, professorID); err != nil {
		return nil, err
	}

	rows, err := s.catalog.ListEligibility(ctx, professorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teaching assignments")
	}

	result := &dto.TeachingAssignments{Subjects: []dto.SubjectView{}, Shifts: []string{}}
	seenSubjects := map[string]struct{}{}
	seenShifts := map[string]struct{}{}
	for _, row := range rows {
		if _, ok := seenSubjects[row.Code]; !ok {
			seenSubjects[row.Code] = struct{}{}
			result.Subjects = append(result.Subjects, dto.SubjectView{Code: row.Code, ShortName: row.ShortName, FullName: row.FullName})
		}
		if _, ok := seenShifts[row.Shift]; !ok {
			seenShifts[row.Shift] = struct{}{}
			result.Shifts = append(result.Shifts, row.Shift)
		}
	}
	return result, nil
}

// ListScheduleBlocks returns every block, or only those of shift when given.
// An unknown shift yields an empty slice.
func (s *AssignmentService) ListScheduleBlocks(ctx context.Context, shift *string) ([]dto.ScheduleBlockView, error) {
	key := blockCachePrefix + "all"
	if shift != nil {
		key = blockCachePrefix + "shift:" + *shift
	}

	var cached []dto.ScheduleBlockView
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	start := time.Now()
	blocks, err := s.schedule.ListBlocks(ctx, shift)
	s.metrics.ObserveDBQuery("list_schedule_blocks", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule blocks")
	}

	views := make([]dto.ScheduleBlockView, 0, len(blocks))
	for _, block := range blocks {
		view, err := s.blockView(block)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "invalid schedule block")
		}
		views = append(views, view)
	}
	s.sortBlocks(views)

	s.cache.Set(ctx, key, views, s.settings.CacheTTL)
	return views, nil
}

// ListSubjects returns the full subject catalog.
func (s *AssignmentService) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	subjects, err := s.catalog.ListSubjects(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}
	if subjects == nil {
		subjects = []models.Subject{}
	}
	return subjects, nil
}

// ListShifts returns every shift name.
func (s *AssignmentService) ListShifts(ctx context.Context) ([]string, error) {
	shifts, err := s.catalog.ListShifts(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load shifts")
	}
	names := make([]string, len(shifts))
	for i, shift := range shifts {
		names[i] = shift.Name
	}
	return names, nil
}

// TimeRanges returns distinct block ranges formatted HH:MM.
func (s *AssignmentService) TimeRanges(ctx context.Context) ([]models.TimeRange, error) {
	ranges, err := s.schedule.ListTimeRanges(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load time ranges")
	}
	out := make([]models.TimeRange, 0, len(ranges))
	for _, r := range ranges {
		start, err := FormatClock(r.StartTime)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "invalid time range")
		}
		end, err := FormatClock(r.EndTime)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "invalid time range")
		}
		out = append(out, models.TimeRange{StartTime: start, EndTime: end})
	}
	return out, nil
}

// InvalidateBlocks drops cached block listings and the preference views
// built from them. Run it after the block catalogue is rewritten.
func (s *AssignmentService) InvalidateBlocks(ctx context.Context) {
	s.cache.Invalidate(ctx, blockCachePrefix+"*")
	s.cache.Invalidate(ctx, preferenceCachePrefix+"*")
}

func (s *AssignmentService) blockView(block models.ScheduleBlock) (dto.ScheduleBlockView, error) {
	start, err := FormatClock(block.StartTime)
	if err != nil {
		return dto.ScheduleBlockView{}, fmt.Errorf("block %d: %w", block.ID, err)
	}
	end, err := FormatClock(block.EndTime)
	if err != nil {
		return dto.ScheduleBlockView{}, fmt.Errorf("block %d: %w", block.ID, err)
	}
	return dto.ScheduleBlockView{ID: block.ID, Day: block.Day, StartTime: start, EndTime: end}, nil
}

// sortBlocks orders by configured day, then start time, then id. Days outside
// the configured order sort last.
func (s *AssignmentService) sortBlocks(views []dto.ScheduleBlockView) {
	rank := func(day string) int {
		if r, ok := s.dayRank[day]; ok {
			return r
		}
		return len(s.dayRank)
	}
	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i], views[j]
		if ra, rb := rank(a.Day), rank(b.Day); ra != rb {
			return ra < rb
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.ID < b.ID
	})
}

var clockLayouts = []string{"15:04:05", "15:04", "15:04:05.999999", "2006-01-02T15:04:05Z07:00"}

// FormatClock renders a stored time of day as zero-padded 24h HH:MM.
func FormatClock(raw string) (string, error) {
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("15:04"), nil
		}
	}
	return "", fmt.Errorf("unrecognised time %q", raw)
}
