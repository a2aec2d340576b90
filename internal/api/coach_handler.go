package api

import (
	"coachfit/coaching-app/internal/domain"
	"coachfit/coaching-app/internal/service"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CoachHandler struct {
	coachService service.CoachService
}

func NewCoachHandler(coachService service.CoachService) *CoachHandler {
	return &CoachHandler{coachService: coachService}
}

// --- DTOs ---

type AddClientRequest struct {
	ClientEmail string `json:"clientEmail" binding:"required,email"`
}

type CreatePlanRequest struct {
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	Emoji           string `json:"emoji"`
	DurationWeeks   int    `json:"durationWeeks" binding:"required,min=1,max=12"`
	WorkoutsPerWeek int    `json:"workoutsPerWeek" binding:"required,min=1,max=7"`
}

type DuplicatePlanRequest struct {
	Name string `json:"name"`
}

type AssignPlanRequest struct {
	TemplateID string     `json:"templateId" binding:"required"`
	StartDate  *time.Time `json:"startDate"`
}

type CheckInResponseRequest struct {
	Response       string `json:"response" binding:"required"`
	PlanAdjustment bool   `json:"planAdjustment"`
}

type ScheduleStatusRequest struct {
	Status domain.ScheduleStatus `json:"status" binding:"required,oneof=ACTIVE PAUSED INACTIVE"`
}

// parseIDParam converts a path parameter to an ObjectID.
func parseIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid "+name+" format.")
		return primitive.NilObjectID, false
	}
	return id, true
}

// requireCoachID extracts the authenticated coach's ID from the token context.
func requireCoachID(c *gin.Context) (primitive.ObjectID, bool) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify coach from token.")
		return primitive.NilObjectID, false
	}
	return coachID, true
}

// mapCoachError translates coach service errors to HTTP responses.
func mapCoachError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrClientNotFound),
		errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrCheckInNotFound),
		errors.Is(err, service.ErrScheduleNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrClientNotManaged),
		errors.Is(err, service.ErrPlanAccessDenied),
		errors.Is(err, service.ErrCheckInAccessDenied),
		errors.Is(err, service.ErrClientNotRole):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrClientAlreadyCoached),
		errors.Is(err, service.ErrActiveCheckInExists):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrPlanNotTemplate),
		errors.Is(err, service.ErrTemplateArchived),
		errors.Is(err, service.ErrInvalidPlanForm),
		errors.Is(err, service.ErrInvalidScheduleStatus),
		errors.Is(err, domain.ErrCheckInNotResponded):
		abortWithError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}

// --- Client Management ---

// AddClientByEmail godoc
// @Summary Add a client to the coach's roster by email
// @Tags Coach
// @Security BearerAuth
// @Param clientRequest body AddClientRequest true "Client's email"
// @Success 200 {object} UserResponse
// @Router /coach/clients [post]
func (h *CoachHandler) AddClientByEmail(c *gin.Context) {
	var req AddClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	coachID, ok := requireCoachID(c)
	if !ok {
		return
	}

	client, err := h.coachService.AddClientByEmail(c.Request.Context(), coachID, req.ClientEmail)
	if err != nil {
		mapCoachError(c, err, "Failed to add client.")
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(client))
}

func (h *CoachHandler) GetManagedClients(c *gin.Context) {
	coachID, ok := requireCoachID(c)
	if !ok {
		return
	}

	clients, err := h.coachService.GetManagedClients(c.Request.Context(), coachID)
	if err != nil {
		mapCoachError(c, err, "Failed to retrieve managed clients.")
		return
	}
	if clients == nil {
		c.JSON(http.StatusOK, []UserResponse{})
		return
	}
	c.JSON(http.StatusOK, MapUsersToResponse(clients))
}

// ClientOverviewResponse wraps the dashboard view with the client mapped to
// its response DTO.
type ClientOverviewResponse struct {
	Client        UserResponse        `json:"client"`
	Plan          *domain.WorkoutPlan `json:"plan,omitempty"`
	CurrentWeek   int                 `json:"currentWeek,omitempty"`
	ActiveCheckIn *domain.CheckIn     `json:"activeCheckIn,omitempty"`
}

func (h *CoachHandler) GetClientOverview(c *gin.Context) {
	coachID, ok := requireCoachID(c)
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, "clientId")
	if !ok {
		return
	}

	overview, err := h.coachService.GetClientOverview(c.Request.Context(), coachID, clientID)
	if err != nil {
		mapCoachError(c, err, "Failed to retrieve client overview.")
		return
	}
	c.JSON(http.StatusOK, ClientOverviewResponse{
		Client:        MapUserToResponse(&overview.Client),
		Plan:          overview.Plan,
		CurrentWeek:   overview.CurrentWeek,
		ActiveCheckIn: overview.ActiveCheckIn,
	})
}

// --- Template Management ---

// CreatePlan godoc
// @Summary Create a workout plan template
// @Tags Coach
// @Security BearerAuth
// @Param plan body CreatePlanRequest true "Plan structure"
// @Success 201 {object} domain.WorkoutPlan
// @Router /coach/plans [post]
func (h *CoachHandler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	coachID, ok := requireCoachID(c)
	if !ok {
		return
	}

	plan, err := h.coachService.CreateTemplate(c.Request.Context(), coachID, domain.PlanForm{
		Name:            req.Name,
		Description:     req.Description,
		Emoji:           req.Emoji,
		DurationWeeks:   req.DurationWeeks,
		WorkoutsPerWeek: req.WorkoutsPerWeek,
	})
	if err != nil {
		mapCoachError(c, err, "Failed to create plan.")
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *CoachHandler) GetPlans(c *gin.Context) {
	coachID, ok := requireCoachID(c)
	if !ok {
		return
	}
	includeArchived := c.Query("includeArchived") == "true"

	plans, err := h.coachService.GetTemplates(c.Request.Context(), coachID, includeArchived)
	if err != nil {
		mapCoachError(c, err, "Failed to retrieve plans.")
		return
	}
	if plans == nil {
		plans = []domain.WorkoutPlan{}
	}
	c.JSON(http.StatusOK, plans)
}

func (h *CoachHandler) DuplicatePlan(c *gin.Context) {
	// Body is optional; without a name the copy gets the default suffix.
	var req DuplicatePlanRequest
	_ = c.ShouldBindJSON(&req)
	coachID, ok := requireCoachID(c)
	if !ok {
		return
	}
	planID, ok := parseIDParam(c, "planId")
	if !ok {
		return
	}

	copied, err := h.coachService.DuplicateTemplate(c.Request.Context(), coachID, planID, req.Name)
	if err != nil {
		mapCoachError(c, err, "Failed to duplicate plan.")
		return
	}
	c.JSON(http.StatusCreated, copied)
}

func (h *CoachHandler) ArchivePlan(c *gin.Context) {
	h.setPlanArchived(c, true)
}

func (h *CoachHandler) UnarchivePlan(c *gin.Context) {
	h.setPlanArchived(c, false)
}

func (h *CoachHandler) setPlanArchived(c *gin.Context, archived bool) {
	coachID, ok := requireCoachID(c)
	if !ok {
		return
	}
	planID, ok := parseIDParam(c, "planId")
	if !ok {
		return
	}

	var err error
	if archived {
		err = h.coachService.ArchiveTemplate(c.Request.Context(), coachID, planID)
	} else {
		err = h.coachService.UnarchiveTemplate(c.Request.Context(), coachID, planID)
	}
	if err != nil {
		mapCoachError(c, err, "Failed to update plan.")
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Plan Assignment ---

// AssignPlan godoc
// @Summary Assign a plan template to a client
// @Description Forks the template into a client instance and starts a weekly check-in schedule.
// @Tags Coach
// @Security BearerAuth
// @Param assignment body AssignPlanRequest true "Template and start date"
// @Success 201 {object} domain.WorkoutPlan
// @Router /coach/clients/{clientId}/plan [post]
func (h *CoachHandler) AssignPlan(c *gin.Context) {
	var req AssignPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	coachID, ok := requireCoachID(c)
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, "clientId")
	if !ok {
		return
	}
	templateID, err := primitive.ObjectIDFromHex(req.TemplateID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid templateId format.")
		return
	}

	startDate := time.Time{}
	if req.StartDate != nil {
		startDate = *req.StartDate
	}

	instance, err := h.coachService.AssignPlanToClient(c.Request.Context(), coachID, clientID, templateID, startDate)
	if err != nil {
		mapCoachError(c, err, "Failed to assign plan.")
		return
	}
	c.JSON(http.StatusCreated, instance)
}

// --- Check-Ins ---

func (h *CoachHandler) CreateCheckIn(c *gin.Context) {
	coachID, ok := requireCoachID(c)
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, "clientId")
	if !ok {
		return
	}

	checkIn, err := h.coachService.CreateCheckIn(c.Request.Context(), coachID, clientID)
	if err != nil {
		mapCoachError(c, err, "Failed to create check-in.")
		return
	}
	c.JSON(http.StatusCreated, checkIn)
}

func (h *CoachHandler) GetClientCheckIns(c *gin.Context) {
	coachID, ok := requireCoachID(c)
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, "clientId")
	if !ok {
		return
	}

	checkIns, err := h.coachService.GetClientCheckIns(c.Request.Context(), coachID, clientID)
	if err != nil {
		mapCoachError(c, err, "Failed to retrieve check-ins.")
		return
	}
	if checkIns == nil {
		checkIns = []domain.CheckIn{}
	}
	c.JSON(http.StatusOK, checkIns)
}

func (h *CoachHandler) CompleteCheckIn(c *gin.Context) {
	var req CheckInResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	coachID, ok := requireCoachID(c)
	if !ok {
		return
	}
	checkInID, ok := parseIDParam(c, "checkinId")
	if !ok {
		return
	}

	completed, err := h.coachService.CompleteCheckIn(c.Request.Context(), coachID, checkInID, domain.CoachReview{
		Response:       req.Response,
		PlanAdjustment: req.PlanAdjustment,
	})
	if err != nil {
		mapCoachError(c, err, "Failed to complete check-in.")
		return
	}
	c.JSON(http.StatusOK, completed)
}

func (h *CoachHandler) SetCheckInScheduleStatus(c *gin.Context) {
	var req ScheduleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	coachID, ok := requireCoachID(c)
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, "clientId")
	if !ok {
		return
	}

	if err := h.coachService.SetCheckInScheduleStatus(c.Request.Context(), coachID, clientID, req.Status); err != nil {
		mapCoachError(c, err, "Failed to update check-in schedule.")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CoachHandler) GenerateDueCheckIns(c *gin.Context) {
	created, err := h.coachService.GenerateDueCheckIns(c.Request.Context())
	if err != nil {
		mapCoachError(c, err, "Failed to generate due check-ins.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": created})
}
