package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/horarios-api/internal/models"
	"github.com/noah-isme/horarios-api/pkg/jobs"
)

type auditWriter interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

// RequestMeta carries caller details recorded in audit logs.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// AuditService writes audit_logs rows off the request path. Audit failures
// are logged and never surface to callers.
type AuditService struct {
	repo   auditWriter
	queue  *jobs.Queue[*models.AuditLog]
	logger *zap.Logger
}

// NewAuditService writes inline until Start launches the queue.
func NewAuditService(repo auditWriter, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &AuditService{repo: repo, logger: logger}
	s.queue = jobs.NewQueue("audit", s.write, jobs.Config{
		Workers:    2,
		BufferSize: 256,
		MaxRetries: 2,
		RetryDelay: 500 * time.Millisecond,
		Logger:     logger,
	})
	return s
}

// Start begins asynchronous delivery. Until then Record writes inline.
func (s *AuditService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop flushes pending records.
func (s *AuditService) Stop() {
	s.queue.Stop()
}

// Record builds an entry for action on resource and hands it to the queue.
func (s *AuditService) Record(ctx context.Context, userID, action, resource, resourceID string, values interface{}, meta RequestMeta) {
	if s == nil || s.repo == nil {
		return
	}
	entry := &models.AuditLog{
		Action:    action,
		Resource:  resource,
		IPAddress: meta.IP,
		UserAgent: meta.UserAgent,
		CreatedAt: time.Now().UTC(),
	}
	if userID != "" {
		entry.UserID = &userID
	}
	if resourceID != "" {
		entry.ResourceID = &resourceID
	}
	if values != nil {
		if raw, err := json.Marshal(values); err == nil {
			entry.NewValues = raw
		}
	}

	if s.queue.Running() {
		if err := s.queue.TryEnqueue(entry); err == nil {
			return
		}
		s.logger.Warn("audit queue unavailable, writing inline", zap.String("action", action))
	}
	if err := s.write(ctx, entry); err != nil {
		s.logger.Warn("failed to record audit log", zap.String("action", action), zap.Error(err))
	}
}

func (s *AuditService) write(ctx context.Context, entry *models.AuditLog) error {
	return s.repo.Create(ctx, entry)
}
