package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/stoic-quote/internal/adapters/http/dto"
	"github.com/jsamuelsen/stoic-quote/internal/domain"
)

// QuoteController is the part of app.QuoteController the API drives.
type QuoteController interface {
	Snapshot() domain.State
	Refresh() bool
	RefreshAndWait(ctx context.Context) (domain.State, error)
	CopyCurrent() error
}

// QuoteHandler serves /api/v1/quote.
type QuoteHandler struct {
	controller QuoteController
}

// NewQuoteHandler creates a QuoteHandler.
func NewQuoteHandler(controller QuoteController) *QuoteHandler {
	return &QuoteHandler{controller: controller}
}

// GetQuote handles GET /api/v1/quote and returns the current snapshot.
//
// @Summary Current quote state
// @Tags quote
// @Produce json
// @Success 200 {object} dto.QuoteStateResponse
// @Router /api/v1/quote [get]
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewQuoteStateResponse(h.controller.Snapshot()))
}

// Refresh handles POST /api/v1/quote/refresh.
//
// Without wait it answers 202 with the Loading snapshot, or 409 when a fetch
// is already in flight. With wait=true it joins the running or new fetch and
// answers 200 once it settles, whatever the outcome.
//
// @Summary Refresh the quote
// @Tags quote
// @Produce json
// @Param wait query bool false "Block until the fetch settles"
// @Param timeout query string false "Upper bound on the wait, e.g. 5s"
// @Success 200 {object} dto.QuoteStateResponse
// @Success 202 {object} dto.QuoteStateResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 504 {object} dto.ErrorResponse
// @Router /api/v1/quote/refresh [post]
func (h *QuoteHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := dto.BindQueryAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	if !req.Wait {
		if !h.controller.Refresh() {
			dto.HandleError(c, domain.ErrFetchInProgress)
			return
		}
		c.JSON(http.StatusAccepted, dto.NewQuoteStateResponse(h.controller.Snapshot()))
		return
	}

	ctx := c.Request.Context()
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	state, err := h.controller.RefreshAndWait(ctx)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteStateResponse(state))
}

// Copy handles POST /api/v1/quote/copy.
//
// @Summary Copy the current quote to the host clipboard
// @Tags quote
// @Success 204
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/quote/copy [post]
func (h *QuoteHandler) Copy(c *gin.Context) {
	if err := h.controller.CopyCurrent(); err != nil {
		dto.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RegisterQuoteRoutes mounts the quote routes on rg.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	quote := rg.Group("/quote")
	quote.GET("", h.GetQuote)
	quote.POST("/refresh", h.Refresh)
	quote.POST("/copy", h.Copy)
}
