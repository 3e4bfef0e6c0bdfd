package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/horarios-api/internal/dto"
	"github.com/noah-isme/horarios-api/internal/service"
	appErrors "github.com/noah-isme/horarios-api/pkg/errors"
	"github.com/noah-isme/horarios-api/pkg/response"
)

type preferenceService interface {
	View(ctx context.Context, professorID string) (*dto.PreferencesView, error)
	Submit(ctx context.Context, professorID string, req dto.SubmitPreferencesRequest, meta service.RequestMeta) error
}

// PreferenceHandler serves the professor's preference form data and submissions.
type PreferenceHandler struct {
	service preferenceService
}

// NewPreferenceHandler constructs the handler.
func NewPreferenceHandler(svc preferenceService) *PreferenceHandler {
	return &PreferenceHandler{service: svc}
}

// Get godoc
// @Summary Preference form data
// @Description Returns assigned subjects, shifts and every schedule block annotated with the stored priority
// @Tags Preferences
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /preferences [get]
func (h *PreferenceHandler) Get(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "session required"))
		return
	}

	view, err := h.service.View(c.Request.Context(), session.UserID)
	if err != nil {
		if appErrors.Is(err, appErrors.ErrUnknownProfessor) {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "Usted no se encuentra registrado."))
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Submit godoc
// @Summary Replace stored preferences
// @Description Stores exactly the submitted block priorities; blocks left out are cleared
// @Tags Preferences
// @Accept json
// @Produce json
// @Param payload body dto.SubmitPreferencesRequest true "Preferences keyed by block id"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /submit [post]
func (h *PreferenceHandler) Submit(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "session required"))
		return
	}

	var req dto.SubmitPreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "No se ha podido decodificar correctamente el JSON"))
		return
	}

	if err := h.service.Submit(c.Request.Context(), session.UserID, req, requestMeta(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.SubmitPreferencesResponse{Success: true, Message: "Preferencias guardadas correctamente"}, nil)
}
