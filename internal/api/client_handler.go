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

type ClientHandler struct {
	clientService service.ClientService
}

func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// --- DTOs ---

type CompleteWorkoutRequest struct {
	Notes string `json:"notes"`
}

type SubmitCheckInRequest struct {
	WorkoutFeeling     domain.WorkoutFeeling `json:"workoutFeeling" binding:"required,oneof=TOO_EASY ABOUT_RIGHT TOO_HARD"`
	BodyFeeling        domain.BodyFeeling    `json:"bodyFeeling" binding:"required,oneof=GREAT NORMAL SORE TIRED"`
	Notes              string                `json:"notes"`
	FlaggedWorkoutID   string                `json:"flaggedWorkoutId"`
	FlaggedWorkoutNote string                `json:"flaggedWorkoutNote"`
}

type AddMeasurementRequest struct {
	TakenAt    *time.Time `json:"takenAt"`
	WeightKG   float64    `json:"weightKg" binding:"required,gt=0"`
	BodyFatPct float64    `json:"bodyFatPct"`
	Notes      string     `json:"notes"`
}

type PhotoUploadURLRequest struct {
	MeasurementID string `json:"measurementId" binding:"required"`
	ContentType   string `json:"contentType" binding:"required"`
}

type ConfirmPhotoRequest struct {
	MeasurementID string `json:"measurementId" binding:"required"`
	ObjectKey     string `json:"objectKey" binding:"required"`
}

// requireClientID extracts the authenticated client's ID from the token
// context.
func requireClientID(c *gin.Context) (primitive.ObjectID, bool) {
	clientID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify client from token.")
		return primitive.NilObjectID, false
	}
	return clientID, true
}

// mapClientError translates client service errors to HTTP responses.
func mapClientError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrNoCurrentPlan),
		errors.Is(err, service.ErrDayNotFound),
		errors.Is(err, service.ErrCheckInNotFound),
		errors.Is(err, service.ErrMeasurementNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrCheckInNotOwned):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrRestDayCompletion),
		errors.Is(err, service.ErrInvalidPhotoContent),
		errors.Is(err, domain.ErrCheckInNotPending),
		errors.Is(err, domain.ErrFlagNoteRequired):
		abortWithError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}

// --- Plan Viewing ---

// GetCurrentPlan godoc
// @Summary Get the client's current plan with the derived week and today's workout
// @Tags Client
// @Security BearerAuth
// @Success 200 {object} service.CurrentPlanView
// @Failure 404 {object} gin.H "No current plan"
// @Router /client/plan [get]
func (h *ClientHandler) GetCurrentPlan(c *gin.Context) {
	clientID, ok := requireClientID(c)
	if !ok {
		return
	}

	view, err := h.clientService.GetCurrentPlan(c.Request.Context(), clientID)
	if err != nil {
		mapClientError(c, err, "Failed to retrieve current plan.")
		return
	}
	c.JSON(http.StatusOK, view)
}

// --- Workout Tracking ---

func (h *ClientHandler) CompleteWorkout(c *gin.Context) {
	// Body is optional; notes may be empty.
	var req CompleteWorkoutRequest
	_ = c.ShouldBindJSON(&req)

	clientID, ok := requireClientID(c)
	if !ok {
		return
	}
	weekID := c.Param("weekId")
	dayID := c.Param("dayId")

	completion, err := h.clientService.CompleteWorkout(c.Request.Context(), clientID, weekID, dayID, req.Notes)
	if err != nil {
		mapClientError(c, err, "Failed to record workout completion.")
		return
	}
	c.JSON(http.StatusCreated, completion)
}

// --- Check-Ins ---

func (h *ClientHandler) GetCheckIns(c *gin.Context) {
	clientID, ok := requireClientID(c)
	if !ok {
		return
	}

	checkIns, err := h.clientService.GetCheckIns(c.Request.Context(), clientID)
	if err != nil {
		mapClientError(c, err, "Failed to retrieve check-ins.")
		return
	}
	if checkIns == nil {
		checkIns = []domain.CheckIn{}
	}
	c.JSON(http.StatusOK, checkIns)
}

// GetActiveCheckIn returns 200 with null when no check-in is waiting; the
// client app polls this and an absence is not an error.
func (h *ClientHandler) GetActiveCheckIn(c *gin.Context) {
	clientID, ok := requireClientID(c)
	if !ok {
		return
	}

	checkIn, err := h.clientService.GetActiveCheckIn(c.Request.Context(), clientID)
	if err != nil {
		mapClientError(c, err, "Failed to retrieve active check-in.")
		return
	}
	c.JSON(http.StatusOK, checkIn)
}

func (h *ClientHandler) SubmitCheckInResponse(c *gin.Context) {
	var req SubmitCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	clientID, ok := requireClientID(c)
	if !ok {
		return
	}
	checkInID, ok := parseIDParam(c, "checkinId")
	if !ok {
		return
	}

	responded, err := h.clientService.SubmitCheckInResponse(c.Request.Context(), clientID, checkInID, domain.ClientResponse{
		WorkoutFeeling:     req.WorkoutFeeling,
		BodyFeeling:        req.BodyFeeling,
		Notes:              req.Notes,
		FlaggedWorkoutID:   req.FlaggedWorkoutID,
		FlaggedWorkoutNote: req.FlaggedWorkoutNote,
	})
	if err != nil {
		mapClientError(c, err, "Failed to submit check-in response.")
		return
	}
	c.JSON(http.StatusOK, responded)
}

// --- Measurements ---

func (h *ClientHandler) AddMeasurement(c *gin.Context) {
	var req AddMeasurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	clientID, ok := requireClientID(c)
	if !ok {
		return
	}

	takenAt := time.Now().UTC()
	if req.TakenAt != nil {
		takenAt = req.TakenAt.UTC()
	}

	measurement, err := h.clientService.AddMeasurement(c.Request.Context(), &domain.Measurement{
		ClientID:   clientID,
		TakenAt:    takenAt,
		WeightKG:   req.WeightKG,
		BodyFatPct: req.BodyFatPct,
		Notes:      req.Notes,
	})
	if err != nil {
		mapClientError(c, err, "Failed to record measurement.")
		return
	}
	c.JSON(http.StatusCreated, measurement)
}

func (h *ClientHandler) GetMeasurements(c *gin.Context) {
	clientID, ok := requireClientID(c)
	if !ok {
		return
	}

	measurements, err := h.clientService.GetMeasurements(c.Request.Context(), clientID)
	if err != nil {
		mapClientError(c, err, "Failed to retrieve measurements.")
		return
	}
	if measurements == nil {
		measurements = []domain.Measurement{}
	}
	c.JSON(http.StatusOK, measurements)
}

// RequestPhotoUploadURL godoc
// @Summary Get a presigned URL for uploading a progress photo
// @Tags Client
// @Security BearerAuth
// @Param request body PhotoUploadURLRequest true "Measurement and content type"
// @Success 200 {object} service.PhotoUploadResponse
// @Router /client/measurements/photo-url [post]
func (h *ClientHandler) RequestPhotoUploadURL(c *gin.Context) {
	var req PhotoUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	clientID, ok := requireClientID(c)
	if !ok {
		return
	}
	measurementID, err := primitive.ObjectIDFromHex(req.MeasurementID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid measurementId format.")
		return
	}

	resp, err := h.clientService.RequestPhotoUploadURL(c.Request.Context(), clientID, measurementID, req.ContentType)
	if err != nil {
		mapClientError(c, err, "Failed to generate upload URL.")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientHandler) ConfirmPhotoUpload(c *gin.Context) {
	var req ConfirmPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	clientID, ok := requireClientID(c)
	if !ok {
		return
	}
	measurementID, err := primitive.ObjectIDFromHex(req.MeasurementID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid measurementId format.")
		return
	}

	if err := h.clientService.ConfirmPhotoUpload(c.Request.Context(), clientID, measurementID, req.ObjectKey); err != nil {
		mapClientError(c, err, "Failed to confirm photo upload.")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ClientHandler) GetPhotoDownloadURL(c *gin.Context) {
	clientID, ok := requireClientID(c)
	if !ok {
		return
	}
	measurementID, ok := parseIDParam(c, "measurementId")
	if !ok {
		return
	}

	url, err := h.clientService.GetPhotoDownloadURL(c.Request.Context(), clientID, measurementID)
	if err != nil {
		mapClientError(c, err, "Failed to generate download URL.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"downloadUrl": url})
}
