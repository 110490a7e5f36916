package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/aleister1102/urlstripper/internal/document"
	"github.com/aleister1102/urlstripper/internal/stripper"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// StripHandler serves the three rewriting entry points.
type StripHandler struct {
	stripper *stripper.Stripper
	logger   zerolog.Logger
}

type stripRequest struct {
	URL  *string  `json:"url"`
	URLs []string `json:"urls"`
}

type urlResult struct {
	Input           string   `json:"input"`
	Output          string   `json:"output"`
	RemovedParams   []string `json:"removed_params,omitempty"`
	FragmentCleared bool     `json:"fragment_cleared"`
	Changed         bool     `json:"changed"`
}

type urlResultsResponse struct {
	Results []urlResult `json:"results"`
}

type textRequest struct {
	Text *string `json:"text"`
}

type textResponse struct {
	Text    string `json:"text"`
	Changed bool   `json:"changed"`
}

func NewStripHandler(s *stripper.Stripper, logger zerolog.Logger) *StripHandler {
	return &StripHandler{
		stripper: s,
		logger:   logger.With().Str("component", "StripHandler").Logger(),
	}
}

func (h *StripHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/strip", h.Strip)
	g.POST("/sanitize/text", h.SanitizeText)
	g.POST("/sanitize", h.SanitizeJSON)
}

// Strip rewrites either a single "url" or a batch of "urls".
func (h *StripHandler) Strip(c echo.Context) error {
	var req stripRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}

	if req.URL != nil {
		return c.JSON(http.StatusOK, toURLResult(h.stripper.StripURLResult(*req.URL)))
	}
	if req.URLs == nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "url or urls is required"})
	}

	response := urlResultsResponse{Results: make([]urlResult, 0, len(req.URLs))}
	for _, raw := range req.URLs {
		response.Results = append(response.Results, toURLResult(h.stripper.StripURLResult(raw)))
	}
	return c.JSON(http.StatusOK, response)
}

func (h *StripHandler) SanitizeText(c echo.Context) error {
	var req textRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	if req.Text == nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "text is required"})
	}

	out := h.stripper.SanitizeText(*req.Text)
	return c.JSON(http.StatusOK, textResponse{Text: out, Changed: out != *req.Text})
}

// SanitizeJSON walks an arbitrary JSON document and rewrites every string in
// it. Object key order and number literals are preserved.
func (h *StripHandler) SanitizeJSON(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return c.JSON(http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
		}
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}

	doc, err := document.ParseJSON(body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid JSON"})
	}

	out, err := document.EncodeJSON(h.stripper.SanitizeMixed(doc))
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode sanitized document")
		return writeError(c, err)
	}
	return c.JSONBlob(http.StatusOK, out)
}

func toURLResult(res stripper.Result) urlResult {
	return urlResult{
		Input:           res.Input,
		Output:          res.Output,
		RemovedParams:   res.Removed,
		FragmentCleared: res.FragmentCleared,
		Changed:         res.Changed,
	}
}
