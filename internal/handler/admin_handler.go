package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/horarios-api/internal/dto"
	"github.com/noah-isme/horarios-api/internal/models"
	"github.com/noah-isme/horarios-api/internal/service"
	appErrors "github.com/noah-isme/horarios-api/pkg/errors"
	"github.com/noah-isme/horarios-api/pkg/response"
)

type adminService interface {
	Login(ctx context.Context, req dto.AdminLoginRequest) (*dto.AdminLoginResponse, error)
	ListProfessors(ctx context.Context) ([]dto.ProfessorProgressItem, error)
}

type previousPreferences interface {
	Previous(ctx context.Context, professorID string) (map[int64]int, error)
}

type professorLookup interface {
	GetProfessor(ctx context.Context, id string) (*models.Professor, error)
}

type exportService interface {
	ProfessorGrid(ctx context.Context, professorID, rawFormat, actorID string, meta service.RequestMeta) (*service.ExportFile, error)
	AllPreferences(ctx context.Context, rawFormat, actorID string, meta service.RequestMeta) (*service.ExportFile, error)
}

type metricsSnapshotter interface {
	Snapshot() models.SystemMetrics
}

// AdminHandler exposes administrator endpoints for tracking and exporting submissions.
type AdminHandler struct {
	admins      adminService
	preferences previousPreferences
	professors  professorLookup
	exports     exportService
	metrics     metricsSnapshotter
}

func NewAdminHandler(admins adminService, preferences previousPreferences, professors professorLookup, exports exportService, metrics metricsSnapshotter) *AdminHandler {
	return &AdminHandler{admins: admins, preferences: preferences, professors: professors, exports: exports, metrics: metrics}
}

// Login godoc
// @Summary Administrator login
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body dto.AdminLoginRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/login [post]
func (h *AdminHandler) Login(c *gin.Context) {
	var req dto.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	res, err := h.admins.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Professors godoc
// @Summary Submission progress per professor
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/professors [get]
func (h *AdminHandler) Professors(c *gin.Context) {
	items, err := h.admins.ListProfessors(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	submitted := 0
	for _, item := range items {
		if item.Submitted {
			submitted++
		}
	}
	response.JSON(c, http.StatusOK, items, map[string]interface{}{"total": len(items), "submitted": submitted})
}

// ProfessorPreferences godoc
// @Summary Stored priorities of one professor
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Professor id (cedula)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/professors/{id}/preferences [get]
func (h *AdminHandler) ProfessorPreferences(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if _, err := h.professors.GetProfessor(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	values, err := h.preferences.Previous(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, values, nil)
}

// ExportProfessor godoc
// @Summary Download one professor's preference grid
// @Tags Admin
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Professor id (cedula)"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/professors/{id}/export [get]
func (h *AdminHandler) ExportProfessor(c *gin.Context) {
	var query dto.ExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	file, err := h.exports.ProfessorGrid(c.Request.Context(), strings.TrimSpace(c.Param("id")), query.Format, actorID(c), requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Body)
}

// ExportAll godoc
// @Summary Download every stored priority
// @Tags Admin
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /admin/preferences/export [get]
func (h *AdminHandler) ExportAll(c *gin.Context) {
	var query dto.ExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	file, err := h.exports.AllPreferences(c.Request.Context(), query.Format, actorID(c), requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Body)
}

// Metrics godoc
// @Summary Process metrics summary
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/metrics [get]
func (h *AdminHandler) Metrics(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.metrics.Snapshot(), nil)
}

func actorID(c *gin.Context) string {
	if claims := claimsFromContext(c); claims != nil {
		return claims.UserID
	}
	return ""
}
