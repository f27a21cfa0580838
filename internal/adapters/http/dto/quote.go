package dto

import (
	"time"

	"github.com/jsamuelsen/stoic-quote/internal/domain"
)

// QuoteResponse is the held quote. Absent fields encode as null.
type QuoteResponse struct {
	Text        domain.Optional `json:"text"`
	Author      domain.Optional `json:"author"`
	DisplayText string          `json:"displayText"`
}

// FetchErrorResponse describes the last failed fetch.
type FetchErrorResponse struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode,omitempty"`
}

// QuoteStateResponse is the body of GET /api/v1/quote and of refresh
// responses.
type QuoteStateResponse struct {
	Status    string              `json:"status"`
	Quote     QuoteResponse       `json:"quote"`
	Error     *FetchErrorResponse `json:"error,omitempty"`
	InFlight  bool                `json:"inFlight"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// NewQuoteStateResponse converts a controller snapshot.
func NewQuoteStateResponse(s domain.State) QuoteStateResponse {
	resp := QuoteStateResponse{
		Status: s.Status.String(),
		Quote: QuoteResponse{
			Text:        s.Quote.Text,
			Author:      s.Quote.Author,
			DisplayText: s.DisplayText(),
		},
		InFlight:  s.InFlight,
		UpdatedAt: s.UpdatedAt,
	}

	if s.Err != nil {
		resp.Error = &FetchErrorResponse{Message: s.Err.Message, StatusCode: s.Err.StatusCode}
	}

	return resp
}

// RefreshRequest holds the query parameters of POST /api/v1/quote/refresh.
type RefreshRequest struct {
	// Wait blocks the response until the fetch settles.
	Wait bool `form:"wait"`

	// Timeout bounds the wait. Zero uses the route deadline.
	Timeout time.Duration `form:"timeout" validate:"omitempty,min=100ms,max=30s"`
}
