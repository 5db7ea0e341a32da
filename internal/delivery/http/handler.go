package http

import (
	"context"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cartpilot/backend/internal/domain"
)

// BatchRunner is the slice of the batch service the handler needs.
type BatchRunner interface {
	Run(ctx context.Context, page domain.PageController, items []domain.GroceryItem) (domain.BatchResult, error)
}

// GoalRunner is the slice of the goal service the handler needs.
type GoalRunner interface {
	Run(ctx context.Context, page domain.PageController, goal string, maxRetries, repeat int) error
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	batch BatchRunner
	goals GoalRunner
	page  domain.PageController

	// sessionMu serializes runs on the shared page. Gin serves each request
	// on its own goroutine, but a batch or goal owns the one browser tab for
	// its whole duration; overlapping runs would interleave navigation and
	// clicks on the same tab.
	sessionMu sync.Mutex
}

// NewHandler creates a new HTTP handler. page is the shared browser session
// every request runs against.
func NewHandler(batch BatchRunner, goals GoalRunner, page domain.PageController) *Handler {
	return &Handler{
		batch: batch,
		goals: goals,
		page:  page,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "cartpilot-backend",
		"version": "1.0.0",
	})
}

// submitRequest is the inbound shopping-list payload
type submitRequest struct {
	Items []domain.GroceryItem `json:"items"`
}

// SubmitGroceries runs the full batch for a shopping list. Partial success is
// a normal response: mixed added/skipped/error items come back with 200.
func (h *Handler) SubmitGroceries(c *gin.Context) {
	if h.batch == nil || h.page == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "automation session not available",
		})
		return
	}

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request body: " + err.Error(),
		})
		return
	}

	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "items list must not be empty",
		})
		return
	}
	for _, item := range req.Items {
		if item.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "item name must not be empty",
			})
			return
		}
		if item.Quantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "item quantity must be at least 1",
			})
			return
		}
	}

	batchID := uuid.NewString()
	log.Printf("[API] batch %s: %d item(s)", batchID, len(req.Items))

	h.sessionMu.Lock()
	results, err := h.batch.Run(c.Request.Context(), h.page, req.Items)
	h.sessionMu.Unlock()
	if err != nil {
		log.Printf("[API] batch %s failed: %v", batchID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal automation error",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"batchId": batchID,
		"result":  results,
	})
}

// goalRequest is the inbound open-ended goal payload
type goalRequest struct {
	Goal       string `json:"goal"`
	MaxRetries int    `json:"maxRetries"`
	Repeat     int    `json:"repeat"`
}

// RunGoal runs one natural-language goal against the shared session via the
// plan-generation path.
func (h *Handler) RunGoal(c *gin.Context) {
	if h.goals == nil || h.page == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "automation session not available",
		})
		return
	}

	var req goalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request body: " + err.Error(),
		})
		return
	}

	if req.Goal == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "goal must not be empty",
		})
		return
	}

	h.sessionMu.Lock()
	err := h.goals.Run(c.Request.Context(), h.page, req.Goal, req.MaxRetries, req.Repeat)
	h.sessionMu.Unlock()
	if err != nil {
		log.Printf("[API] goal %q failed: %v", req.Goal, err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "goal could not be completed",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "completed",
		"goal":   req.Goal,
	})
}
