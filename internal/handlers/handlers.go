// Package handlers exposes the planning core over HTTP.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tripweaver/internal/models"
	"tripweaver/internal/pkg/logger"
	"tripweaver/internal/services"
)

// TripPlanner runs the staged generation pipeline.
type TripPlanner interface {
	GeneratePlan(ctx context.Context, intent models.TripIntent) (models.Itinerary, error)
	ClearResearchCache()
}

// DayRefiner regenerates one day of an itinerary from feedback.
type DayRefiner interface {
	Run(ctx context.Context, request models.RefinerRequest, additionalPlaces map[string]models.Place) (models.RefinerResponse, error)
}

// TripStore persists sessions and finished trips.
type TripStore interface {
	LoadSession(ctx context.Context, sessionID string) (*models.ConversationState, error)
	SaveTrip(ctx context.Context, intent models.TripIntent, itinerary models.Itinerary) (*models.StoredTrip, error)
	GetTrip(ctx context.Context, tripID string) (*models.StoredTrip, error)
	HealthCheck(ctx context.Context) error
}

type Handler struct {
	conversation *services.ConversationService
	pipeline     TripPlanner
	refiner      DayRefiner
	store        TripStore
	logger       *logger.Logger
}

func New(
	conversation *services.ConversationService,
	pipeline TripPlanner,
	refiner DayRefiner,
	store TripStore,
	log *logger.Logger,
) *Handler {
	return &Handler{
		conversation: conversation,
		pipeline:     pipeline,
		refiner:      refiner,
		store:        store,
		logger:       log,
	}
}

// Router wires every endpoint onto a gin engine.
func (handler *Handler) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", handler.health)

	api := router.Group("/api/v1")
	{
		api.POST("/sessions/:id/actions", handler.processAction)
		api.POST("/sessions/:id/plan", handler.planFromSession)
		api.POST("/plan", handler.plan)
		api.POST("/refine", handler.refine)
		api.GET("/trips/:id", handler.getTrip)
		api.DELETE("/cache/research", handler.clearResearchCache)
	}

	return router
}

func (handler *Handler) health(c *gin.Context) {
	if err := handler.store.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (handler *Handler) processAction(c *gin.Context) {
	sessionID := c.Param("id")

	var action models.Action
	if err := c.ShouldBindJSON(&action); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid action payload"})
		return
	}

	response, err := handler.conversation.ProcessAction(c.Request.Context(), sessionID, action)
	if err != nil {
		handler.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// planFromSession builds the trip intent from accumulated session context
// and runs the full pipeline. The finished trip is persisted and returned.
func (handler *Handler) planFromSession(c *gin.Context) {
	sessionID := c.Param("id")
	ctx := c.Request.Context()

	state, err := handler.store.LoadSession(ctx, sessionID)
	if err != nil {
		handler.respondError(c, err)
		return
	}
	if state == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}

	intent, err := handler.conversation.BuildTripIntent(state)
	if err != nil {
		handler.respondError(c, err)
		return
	}

	itinerary, err := handler.pipeline.GeneratePlan(ctx, intent)
	if err != nil {
		handler.respondError(c, err)
		return
	}

	trip, err := handler.store.SaveTrip(ctx, intent, itinerary)
	if err != nil {
		handler.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

func (handler *Handler) plan(c *gin.Context) {
	var intent models.TripIntent
	if err := c.ShouldBindJSON(&intent); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trip intent payload"})
		return
	}

	ctx := c.Request.Context()
	itinerary, err := handler.pipeline.GeneratePlan(ctx, intent)
	if err != nil {
		handler.respondError(c, err)
		return
	}

	trip, err := handler.store.SaveTrip(ctx, intent, itinerary)
	if err != nil {
		handler.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

func (handler *Handler) refine(c *gin.Context) {
	var request models.RefinerRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid refiner payload"})
		return
	}

	// Empty feedback is allowed; the refiner falls back to a generic ask.
	response, err := handler.refiner.Run(c.Request.Context(), request, nil)
	if err != nil {
		handler.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (handler *Handler) getTrip(c *gin.Context) {
	trip, err := handler.store.GetTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.respondError(c, err)
		return
	}
	if trip == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown trip"})
		return
	}
	c.JSON(http.StatusOK, trip)
}

func (handler *Handler) clearResearchCache(c *gin.Context) {
	handler.pipeline.ClearResearchCache()
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

func (handler *Handler) respondError(c *gin.Context, err error) {
	var pipelineErr *models.PipelineError
	if errors.As(err, &pipelineErr) {
		status := http.StatusBadGateway
		switch pipelineErr.Code {
		case "MISSING_DESTINATION", "EMPTY_INTAKE":
			status = http.StatusBadRequest
		}
		handler.logger.WithError(err).Error("Request failed", "code", pipelineErr.Code)
		c.JSON(status, gin.H{"error": pipelineErr.Message, "code": pipelineErr.Code})
		return
	}

	handler.logger.WithError(err).Error("Request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
