package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/noah-isme/horarios-api/internal/models"
	"github.com/noah-isme/horarios-api/internal/repository"
	appErrors "github.com/noah-isme/horarios-api/pkg/errors"
)

// memoryStore mimics the Postgres tables touched by the reconciler.
type memoryStore struct {
	mu          sync.Mutex
	professors  map[string]*models.Professor
	blocks      []models.ScheduleBlock
	shiftBlocks map[string][]int64
	eligibility map[string][]models.EligibleSubject
	priorities  map[string]map[int64]int
	replaceErr  error
	onList      func()
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		professors: map[string]*models.Professor{
			"1": {ID: "1", ShortName: "juan", FullName: "Juan Perez"},
		},
		blocks: []models.ScheduleBlock{
			{ID: 1, Day: "lun", StartTime: "08:00:00", EndTime: "10:00:00"},
			{ID: 2, Day: "mar", StartTime: "08:00:00", EndTime: "10:00:00"},
			{ID: 3, Day: "lun", StartTime: "14:00:00", EndTime: "16:00:00"},
		},
		shiftBlocks: map[string][]int64{"Mañana": {1, 2}, "Tarde": {3}},
		eligibility: map[string][]models.EligibleSubject{
			"1": {
				{Subject: models.Subject{Code: "MAT101", ShortName: "MAT101"}, Shift: "Mañana", MaxGroups: 2},
				{Subject: models.Subject{Code: "MAT101", ShortName: "MAT101"}, Shift: "Mañana", MaxGroups: 1},
			},
		},
		priorities: map[string]map[int64]int{},
	}
}

func (m *memoryStore) FindByID(ctx context.Context, id string) (*models.Professor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.professors[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (m *memoryStore) ListWithProgress(ctx context.Context) ([]models.ProfessorProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ProfessorProgress
	for id, p := range m.professors {
		out = append(out, models.ProfessorProgress{Professor: *p, PriorityCount: len(m.priorities[id])})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryStore) ListBlocks(ctx context.Context, shift *string) ([]models.ScheduleBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if shift == nil {
		return append([]models.ScheduleBlock(nil), m.blocks...), nil
	}
	ids := map[int64]struct{}{}
	for _, id := range m.shiftBlocks[*shift] {
		ids[id] = struct{}{}
	}
	var out []models.ScheduleBlock
	for _, b := range m.blocks {
		if _, ok := ids[b.ID]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memoryStore) ListTimeRanges(ctx context.Context) ([]models.TimeRange, error) {
	seen := map[models.TimeRange]struct{}{}
	var out []models.TimeRange
	for _, b := range m.blocks {
		r := models.TimeRange{StartTime: b.StartTime, EndTime: b.EndTime}
		if _, ok := seen[r]; !ok {
			seen[r] = struct{}{}
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (m *memoryStore) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	return []models.Subject{{Code: "MAT101", ShortName: "MAT101"}}, nil
}

func (m *memoryStore) ListShifts(ctx context.Context) ([]models.Shift, error) {
	return []models.Shift{{Name: "Mañana"}, {Name: "Tarde"}}, nil
}

func (m *memoryStore) ListEligibility(ctx context.Context, professorID string) ([]models.EligibleSubject, error) {
	return m.eligibility[professorID], nil
}

func (m *memoryStore) Replace(ctx context.Context, set models.PreferenceSet, modifiedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.replaceErr != nil {
		return m.replaceErr
	}
	p, ok := m.professors[set.ProfessorID]
	if !ok {
		return repository.ErrProfessorNotFound
	}
	known := map[int64]struct{}{}
	for _, b := range m.blocks {
		known[b.ID] = struct{}{}
	}
	var missing []int64
	for id := range set.Values {
		if _, ok := known[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
		return &repository.MissingBlocksError{IDs: missing}
	}
	next := make(map[int64]int, len(set.Values))
	for id, v := range set.Values {
		next[id] = v
	}
	m.priorities[set.ProfessorID] = next
	stamp := modifiedAt
	flag := set.MinMaxDays
	p.LastModified = &stamp
	p.MinMaxDays = &flag
	return nil
}

func (m *memoryStore) ListByProfessor(ctx context.Context, professorID string) (map[int64]int, error) {
	m.mu.Lock()
	out := map[int64]int{}
	for id, v := range m.priorities[professorID] {
		out[id] = v
	}
	hook := m.onList
	m.onList = nil
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
	return out, nil
}

func (m *memoryStore) ListForExport(ctx context.Context) ([]models.PriorityExportRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.PriorityExportRow
	for _, b := range m.blocks {
		for pid, values := range m.priorities {
			if v, ok := values[b.ID]; ok {
				out = append(out, models.PriorityExportRow{
					ProfessorID: pid, ShortName: m.professors[pid].ShortName,
					BlockID: b.ID, Day: b.Day, StartTime: b.StartTime, EndTime: b.EndTime, Value: v,
				})
			}
		}
	}
	return out, nil
}

type auditRecorderStub struct {
	mu   sync.Mutex
	logs []*models.AuditLog
}

func (a *auditRecorderStub) Create(ctx context.Context, log *models.AuditLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.logs = append(a.logs, log)
	return nil
}

func (a *auditRecorderStub) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.logs))
	for i, l := range a.logs {
		out[i] = l.Action
	}
	return out
}

type sessionStoreStub struct {
	revoked map[string]time.Duration
	err     error
}

func (s *sessionStoreStub) Revoke(ctx context.Context, id string, ttl time.Duration) error {
	if s.revoked == nil {
		s.revoked = map[string]time.Duration{}
	}
	s.revoked[id] = ttl
	return nil
}

func (s *sessionStoreStub) IsRevoked(ctx context.Context, id string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.revoked[id]
	return ok, nil
}

type cacheRepoStub struct {
	mu      sync.Mutex
	values  map[string][]byte
	deleted []string
}

func newCacheRepoStub() *cacheRepoStub {
	return &cacheRepoStub{values: map[string][]byte{}}
}

func (c *cacheRepoStub) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *cacheRepoStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = raw
	return nil
}

func (c *cacheRepoStub) DeleteByPattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.values {
		if ok, _ := path.Match(pattern, key); ok {
			delete(c.values, key)
			c.deleted = append(c.deleted, key)
		}
	}
	return nil
}

func testSettings() ScheduleSettings {
	return ScheduleSettings{Days: []string{"lun", "mar", "mie", "jue", "vie"}, PriorityMax: 3, CacheTTL: time.Minute}
}

// newTestServices wires the preference stack over a memoryStore.
func newTestServices(store *memoryStore, cache *CacheService) (*AssignmentService, *PreferenceService, *auditRecorderStub) {
	audit := &auditRecorderStub{}
	auditSvc := NewAuditService(audit, nil)
	assignments := NewAssignmentService(store, store, store, cache, nil, testSettings(), nil)
	prefs := NewPreferenceService(store, assignments, cache, auditSvc, nil, testSettings(), nil, nil)
	return assignments, prefs, audit
}
