package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shenikar/sos_rescue_system/internal/config"
	"github.com/shenikar/sos_rescue_system/internal/models"
	"github.com/shenikar/sos_rescue_system/internal/service"
)

type Handler struct {
	signalService service.SignalService
	teamService   service.TeamService
	logger        *logrus.Logger
	validate      *validator.Validate
	cfg           *config.Config
}

func NewHandler(signalService service.SignalService, teamService service.TeamService, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		signalService: signalService,
		teamService:   teamService,
		logger:        logger,
		validate:      validator.New(),
		cfg:           cfg,
	}
}

// createSignalBodySlack - запас на описание, координаты и JSON-обвязку
const createSignalBodySlack = 64 << 10

// maxCreateSignalBodyBytes - base64 увеличивает картинку в 4/3 раза
func maxCreateSignalBodyBytes(maxImageBytes int) int64 {
	perImage := (int64(maxImageBytes) + 2) / 3 * 4
	return int64(models.MaxSignalImages)*perImage + createSignalBodySlack
}

// bindAndValidate разбирает JSON и проверяет теги validate; при ошибке ответ уже отправлен
func (h *Handler) bindAndValidate(c *gin.Context, log *logrus.Entry, input any) bool {
	if err := c.ShouldBindJSON(input); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.WithError(err).Warn("Request body too large")
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return false
		}
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func parseSignalID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signal ID"})
		return uuid.Nil, false
	}
	return id, true
}

// parseSignalFilter читает необязательные status и danger_level из query
func parseSignalFilter(c *gin.Context) models.SignalFilter {
	var filter models.SignalFilter
	if v := c.Query("status"); v != "" {
		status := models.SignalStatus(v)
		filter.Status = &status
	}
	if v := c.Query("danger_level"); v != "" {
		level := models.DangerLevel(v)
		filter.DangerLevel = &level
	}
	return filter
}

// @Summary Create an SOS signal
// @Description Submit an emergency signal. The danger level is assigned by the classifier; if it is unavailable the signal is marked red.
// @Tags Signals
// @Accept json
// @Produce json
// @Param signal body CreateSignalRequest true "Signal creation request"
// @Success 201 {object} SignalResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 413 {object} map[string]string "Request body too large"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /signals [post]
func (h *Handler) createSignal(c *gin.Context) {
	var input CreateSignalRequest
	log := h.logger.WithField("method", "createSignal")

	// тело ограничивается до чтения, лимит картинок проверяется уже после декодирования
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxCreateSignalBodyBytes(h.cfg.MaxImageBytes))

	if !h.bindAndValidate(c, log, &input) {
		return
	}

	model, err := DTOToSignalModel(input)
	if err != nil {
		respondError(c, log, err)
		return
	}
	if err := h.signalService.CreateSignal(c.Request.Context(), model); err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToSignalResponse(model))
}

// @Summary Get a list of signals
// @Description Get all signals matching the optional filters, newest first. Image blobs are omitted.
// @Tags Signals
// @Produce json
// @Param status query string false "Signal status" Enums(pending, in_progress, completed)
// @Param danger_level query string false "Danger level" Enums(red, yellow, green)
// @Success 200 {array} SignalResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /signals [get]
func (h *Handler) listSignals(c *gin.Context) {
	log := h.logger.WithField("method", "listSignals")

	signals, err := h.signalService.ListSignals(c.Request.Context(), parseSignalFilter(c))
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToSignalResponses(signals))
}

// @Summary Get signal by ID
// @Description Get a single signal with its images, assignment and latest rescuer location.
// @Tags Signals
// @Produce json
// @Param id path string true "Signal ID"
// @Success 200 {object} SignalResponse
// @Failure 400 {object} map[string]string "Invalid signal ID"
// @Failure 404 {object} map[string]string "Signal not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /signals/{id} [get]
func (h *Handler) getSignal(c *gin.Context) {
	id, ok := parseSignalID(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getSignal").WithField("id", id)

	signal, err := h.signalService.GetSignal(c.Request.Context(), id)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToSignalResponse(signal))
}

// @Summary Get the latest rescuer position
// @Description Get the last position reported by the team working on the signal.
// @Tags Signals
// @Produce json
// @Param id path string true "Signal ID"
// @Success 200 {object} RescuerLocationResponse
// @Failure 400 {object} map[string]string "Invalid signal ID"
// @Failure 404 {object} map[string]string "Signal not found or no position reported"
// @Router /signals/{id}/rescuer-location [get]
func (h *Handler) getRescuerLocation(c *gin.Context) {
	id, ok := parseSignalID(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getRescuerLocation").WithField("id", id)

	loc, err := h.signalService.GetRescuerLocation(c.Request.Context(), id)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToRescuerLocationResponse(loc))
}

// @Summary Get signal status history
// @Description Get every status change of the signal with the acting team and notes. Requires team token.
// @Tags Signals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Signal ID"
// @Success 200 {array} SignalEventResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Signal not found"
// @Router /signals/{id}/history [get]
func (h *Handler) getSignalHistory(c *gin.Context) {
	id, ok := parseSignalID(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getSignalHistory").WithField("id", id)

	events, err := h.signalService.GetHistory(c.Request.Context(), id)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToSignalEventResponses(events))
}

// @Summary Change signal status
// @Description in_progress claims a pending signal for the calling team; completed closes a signal held by the calling team. Requires team token.
// @Tags Signals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Signal ID"
// @Param status body UpdateStatusRequest true "Status update request"
// @Success 200 {object} SignalResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Signal not found"
// @Failure 409 {object} map[string]string "Signal already claimed by another team"
// @Failure 422 {object} map[string]string "Transition not allowed"
// @Router /signals/{id}/status [put]
func (h *Handler) updateSignalStatus(c *gin.Context) {
	id, ok := parseSignalID(c)
	if !ok {
		return
	}
	team := teamFromContext(c)
	log := h.logger.WithField("method", "updateSignalStatus").WithField("id", id).WithField("team_id", team.ID)

	var input UpdateStatusRequest
	if !h.bindAndValidate(c, log, &input) {
		return
	}

	signal, err := h.signalService.UpdateStatus(c.Request.Context(), id, team.ID, models.SignalStatus(input.Status), input.Notes)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToSignalResponse(signal))
}

// @Summary Report rescuer position
// @Description Overwrite the latest position of the team working on the signal. Only the assigned team may report while the signal is in progress. Requires team token.
// @Tags Rescue
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param location body RescuerLocationRequest true "Rescuer position"
// @Success 200 {object} LocationAcceptedResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Team is not the current assignee"
// @Failure 404 {object} map[string]string "Signal not found"
// @Router /rescue/location [post]
func (h *Handler) reportRescuerLocation(c *gin.Context) {
	team := teamFromContext(c)
	log := h.logger.WithField("method", "reportRescuerLocation").WithField("team_id", team.ID)

	var input RescuerLocationRequest
	if !h.bindAndValidate(c, log, &input) {
		return
	}
	signalID := uuid.MustParse(input.SignalID)

	signal, err := h.signalService.ReportPosition(c.Request.Context(), signalID, team.ID, models.Position{
		Latitude:  *input.Latitude,
		Longitude: *input.Longitude,
	})
	if err != nil {
		// токен валиден, но команда не держит сигнал
		if errors.Is(err, models.ErrUnauthorized) {
			respondErrorWithStatus(c, log, http.StatusForbidden, err)
			return
		}
		respondError(c, log, err)
		return
	}

	resp := LocationAcceptedResponse{Status: "ok"}
	if signal.RescuerLocation != nil {
		resp.ReportedAt = signal.RescuerLocation.ReportedAt
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Register a rescue team
// @Description Create a rescue team account.
// @Tags Rescue
// @Accept json
// @Produce json
// @Param team body RegisterTeamRequest true "Team registration request"
// @Success 201 {object} TeamResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 409 {object} map[string]string "Username already registered"
// @Router /rescue/register [post]
func (h *Handler) registerTeam(c *gin.Context) {
	var input RegisterTeamRequest
	log := h.logger.WithField("method", "registerTeam")

	if !h.bindAndValidate(c, log, &input) {
		return
	}

	team, err := h.teamService.Register(c.Request.Context(), input.Username, input.Password, input.TeamName)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToTeamResponse(team))
}

// @Summary Log in as a rescue team
// @Description Exchange credentials for a bearer token with a fixed expiry.
// @Tags Rescue
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login request"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 429 {object} map[string]string "Too many failed attempts"
// @Router /rescue/login [post]
func (h *Handler) login(c *gin.Context) {
	var input LoginRequest
	log := h.logger.WithField("method", "login")

	if !h.bindAndValidate(c, log, &input) {
		return
	}

	result, err := h.teamService.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: result.AccessToken,
		TokenType:   "bearer",
		ExpiresAt:   result.ExpiresAt,
		Team:        ModelToTeamResponse(result.Team),
	})
}

// @Summary Get dashboard statistics
// @Description Signal counts by danger level and by status. Requires team token.
// @Tags Rescue
// @Produce json
// @Security BearerAuth
// @Success 200 {object} StatsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /rescue/dashboard/stats [get]
func (h *Handler) getDashboardStats(c *gin.Context) {
	log := h.logger.WithField("method", "getDashboardStats")

	stats, err := h.signalService.GetDashboardStats(c.Request.Context())
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToStatsResponse(stats))
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
