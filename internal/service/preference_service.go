package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/horarios-api/internal/dto"
	"github.com/noah-isme/horarios-api/internal/models"
	"github.com/noah-isme/horarios-api/internal/repository"
	appErrors "github.com/noah-isme/horarios-api/pkg/errors"
)

type priorityStore interface {
	Replace(ctx context.Context, set models.PreferenceSet, modifiedAt time.Time) error
	ListByProfessor(ctx context.Context, professorID string) (map[int64]int, error)
}

type assignmentLookup interface {
	GetProfessor(ctx context.Context, id string) (*models.Professor, error)
	ResolveTeachingAssignments(ctx context.Context, professorID string) (*dto.TeachingAssignments, error)
	ListScheduleBlocks(ctx context.Context, shift *string) ([]dto.ScheduleBlockView, error)
}

const preferenceCachePrefix = "preferences:"

// PreferenceService reconciles submitted priorities and assembles the form view.
type PreferenceService struct {
	priorities  priorityStore
	assignments assignmentLookup
	cache       *CacheService
	audit       *AuditService
	metrics     *MetricsService
	settings    ScheduleSettings
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewPreferenceService wires the reconciler with its stores and collaborators.
func NewPreferenceService(priorities priorityStore, assignments assignmentLookup, cache *CacheService, audit *AuditService, metrics *MetricsService, settings ScheduleSettings, validate *validator.Validate, logger *zap.Logger) *PreferenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if settings.PriorityMax <= 0 {
		settings.PriorityMax = 3
	}
	return &PreferenceService{
		priorities:  priorities,
		assignments: assignments,
		cache:       cache,
		audit:       audit,
		metrics:     metrics,
		settings:    settings,
		validator:   validate,
		logger:      logger,
		now:         time.Now,
	}
}

// Submit replaces the professor's stored priorities with the request's set.
// Either the whole set is stored or nothing changes.
func (s *PreferenceService) Submit(ctx context.Context, professorID string, req dto.SubmitPreferencesRequest, meta RequestMeta) (err error) {
	defer func() {
		outcome := OutcomeSuccess
		if err != nil {
			outcome = OutcomeFailure
		}
		s.metrics.RecordSubmission(outcome)
	}()

	normalized, err := req.Normalize(s.settings.PriorityMax)
	if err != nil {
		if errors.Is(err, dto.ErrPreferencesRequired) {
			return appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	if err := s.validator.Struct(normalized.Entries()); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preference values")
	}
	if normalized.Deprecated {
		s.logger.Warn("deprecated list-shaped preferences upgraded", zap.String("professor_id", professorID))
	}

	set := models.PreferenceSet{
		ProfessorID: professorID,
		Values:      normalized.Values,
		MinMaxDays:  normalized.MinMaxDays,
	}

	start := time.Now()
	err = s.priorities.Replace(ctx, set, s.now().UTC())
	s.metrics.ObserveDBQuery("replace_priorities", time.Since(start))
	if err != nil {
		var missing *repository.MissingBlocksError
		switch {
		case errors.Is(err, repository.ErrProfessorNotFound):
			return appErrors.ErrUnknownProfessor
		case errors.As(err, &missing):
			return appErrors.Clone(appErrors.ErrUnknownBlock, missing.Error())
		default:
			s.logger.Error("failed to replace priorities", zap.String("professor_id", professorID), zap.Error(err))
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save preferences")
		}
	}

	s.cache.Invalidate(ctx, preferenceCachePrefix+professorID+":*")
	s.audit.Record(ctx, professorID, models.AuditActionPreferencesSubmit, "preferences", professorID, map[string]interface{}{
		"blocks":       len(set.Values),
		"min_max_dias": set.MinMaxDays,
		"deprecated":   normalized.Deprecated,
	}, meta)
	s.logger.Info("preferences stored", zap.String("professor_id", professorID), zap.Int("blocks", len(set.Values)))
	return nil
}

// Previous returns the stored priorities keyed by block id.
func (s *PreferenceService) Previous(ctx context.Context, professorID string) (map[int64]int, error) {
	values, err := s.priorities.ListByProfessor(ctx, professorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load preferences")
	}
	return values, nil
}

// View assembles the GET /preferences payload. Professors with no assigned
// shifts get NO_SHIFTS_ASSIGNED.
func (s *PreferenceService) View(ctx context.Context, professorID string) (*dto.PreferencesView, error) {
	professor, err := s.assignments.GetProfessor(ctx, professorID)
	if err != nil {
		return nil, err
	}

	key := viewCacheKey(professor)
	var cached dto.PreferencesView
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	assignments, err := s.assignments.ResolveTeachingAssignments(ctx, professorID)
	if err != nil {
		return nil, err
	}
	if len(assignments.Shifts) == 0 {
		return nil, appErrors.ErrNoShiftsAssigned
	}

	shiftBlocks := []int64{}
	seen := map[int64]struct{}{}
	for _, shift := range assignments.Shifts {
		shift := shift
		blocks, err := s.assignments.ListScheduleBlocks(ctx, &shift)
		if err != nil {
			return nil, err
		}
		for _, block := range blocks {
			if _, ok := seen[block.ID]; ok {
				continue
			}
			seen[block.ID] = struct{}{}
			shiftBlocks = append(shiftBlocks, block.ID)
		}
	}

	all, err := s.assignments.ListScheduleBlocks(ctx, nil)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, appErrors.Clone(appErrors.ErrInternal, "no schedule blocks configured")
	}

	previous, err := s.Previous(ctx, professorID)
	if err != nil {
		return nil, err
	}

	blocks := make([]dto.ScheduleBlockView, len(all))
	for i, block := range all {
		value := previous[block.ID]
		block.Preference = &value
		blocks[i] = block
	}

	view := &dto.PreferencesView{
		ProfessorID:    professor.ID,
		ProfessorName:  professor.FullName,
		MinMaxDays:     professor.MinMaxDays != nil && *professor.MinMaxDays,
		Subjects:       assignments.Subjects,
		Shifts:         assignments.Shifts,
		ShiftBlockIDs:  shiftBlocks,
		ScheduleBlocks: blocks,
	}
	if professor.LastModified != nil {
		stamp := professor.LastModified.UTC().Format(time.RFC3339)
		view.LastModified = &stamp
	}

	s.cache.Set(ctx, key, view, s.settings.CacheTTL)
	return view, nil
}

// viewCacheKey is versioned by last_modified, which Replace stamps in the
// same transaction as the priorities. A view built from rows read before a
// submission can only land under the superseded version.
func viewCacheKey(professor *models.Professor) string {
	version := "0"
	if professor.LastModified != nil {
		version = strconv.FormatInt(professor.LastModified.UnixNano(), 10)
	}
	return preferenceCachePrefix + professor.ID + ":" + version
}
