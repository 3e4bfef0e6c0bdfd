package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/horarios-api/internal/dto"
	"github.com/noah-isme/horarios-api/internal/models"
	appErrors "github.com/noah-isme/horarios-api/pkg/errors"
	"github.com/noah-isme/horarios-api/pkg/response"
)

type assignmentService interface {
	ResolveTeachingAssignments(ctx context.Context, professorID string) (*dto.TeachingAssignments, error)
	ListScheduleBlocks(ctx context.Context, shift *string) ([]dto.ScheduleBlockView, error)
	ListSubjects(ctx context.Context) ([]models.Subject, error)
	ListShifts(ctx context.Context) ([]string, error)
}

// CatalogHandler exposes read-only schedule lookups.
type CatalogHandler struct {
	service assignmentService
}

func NewCatalogHandler(svc assignmentService) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

// Blocks godoc
// @Summary List schedule blocks
// @Tags Catalog
// @Produce json
// @Param turno query string false "Shift name"
// @Success 200 {object} response.Envelope
// @Router /api/blocks [get]
func (h *CatalogHandler) Blocks(c *gin.Context) {
	var query dto.BlockQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	var shift *string
	if s := strings.TrimSpace(query.Shift); s != "" {
		shift = &s
	}

	blocks, err := h.service.ListScheduleBlocks(c.Request.Context(), shift)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, blocks, map[string]interface{}{"total": len(blocks)})
}

// Subjects godoc
// @Summary List subjects
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /api/subjects [get]
func (h *CatalogHandler) Subjects(c *gin.Context) {
	subjects, err := h.service.ListSubjects(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects, nil)
}

// Shifts godoc
// @Summary List shifts
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /api/shifts [get]
func (h *CatalogHandler) Shifts(c *gin.Context) {
	shifts, err := h.service.ListShifts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, shifts, nil)
}

// Assignments godoc
// @Summary Subjects and shifts assigned to the session professor
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /api/assignments [get]
func (h *CatalogHandler) Assignments(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "session required"))
		return
	}
	result, err := h.service.ResolveTeachingAssignments(c.Request.Context(), session.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
