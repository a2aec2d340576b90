package api

import (
	"coachfit/coaching-app/internal/domain"
	"coachfit/coaching-app/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	coachService service.CoachService,
	clientService service.ClientService,
	messageService service.MessageService,
) {
	authHandler := NewAuthHandler(authService)
	coachHandler := NewCoachHandler(coachService)
	clientHandler := NewClientHandler(clientService)
	messageHandler := NewMessageHandler(messageService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userID.Hex(), "role": role})
		})

		// --- Coach Routes ---
		coachGroup := protected.Group("/coach")
		coachGroup.Use(RoleMiddleware(domain.RoleCoach))
		{
			// Roster
			coachGroup.POST("/clients", coachHandler.AddClientByEmail)
			coachGroup.GET("/clients", coachHandler.GetManagedClients)
			coachGroup.GET("/clients/:clientId", coachHandler.GetClientOverview)

			// Plan templates
			coachGroup.POST("/plans", coachHandler.CreatePlan)
			coachGroup.GET("/plans", coachHandler.GetPlans)
			coachGroup.POST("/plans/:planId/duplicate", coachHandler.DuplicatePlan)
			coachGroup.POST("/plans/:planId/archive", coachHandler.ArchivePlan)
			coachGroup.POST("/plans/:planId/unarchive", coachHandler.UnarchivePlan)

			// Assignment
			coachGroup.POST("/clients/:clientId/plan", coachHandler.AssignPlan)

			// Check-ins
			coachGroup.POST("/clients/:clientId/checkins", coachHandler.CreateCheckIn)
			coachGroup.GET("/clients/:clientId/checkins", coachHandler.GetClientCheckIns)
			coachGroup.POST("/checkins/:checkinId/complete", coachHandler.CompleteCheckIn)
			coachGroup.PUT("/clients/:clientId/checkin-schedule", coachHandler.SetCheckInScheduleStatus)
			coachGroup.POST("/checkins/due", coachHandler.GenerateDueCheckIns)
		}

		// --- Client Routes ---
		clientGroup := protected.Group("/client")
		clientGroup.Use(RoleMiddleware(domain.RoleClient))
		{
			clientGroup.GET("/plan", clientHandler.GetCurrentPlan)
			clientGroup.POST("/workouts/:weekId/:dayId/complete", clientHandler.CompleteWorkout)

			clientGroup.GET("/checkins", clientHandler.GetCheckIns)
			clientGroup.GET("/checkins/active", clientHandler.GetActiveCheckIn)
			clientGroup.POST("/checkins/:checkinId/respond", clientHandler.SubmitCheckInResponse)

			clientGroup.POST("/measurements", clientHandler.AddMeasurement)
			clientGroup.GET("/measurements", clientHandler.GetMeasurements)
			clientGroup.POST("/measurements/photo-url", clientHandler.RequestPhotoUploadURL)
			clientGroup.POST("/measurements/photo-confirm", clientHandler.ConfirmPhotoUpload)
			clientGroup.GET("/measurements/:measurementId/photo", clientHandler.GetPhotoDownloadURL)
		}

		// --- Messaging (both roles) ---
		messageGroup := protected.Group("/messages")
		{
			messageGroup.POST("", messageHandler.Send)
			messageGroup.GET("/:userId", messageHandler.GetConversation)
			messageGroup.POST("/:userId/read", messageHandler.MarkConversationRead)
		}
	}
}
