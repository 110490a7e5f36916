package server

import (
	"net/http"

	"github.com/aleister1102/urlstripper/internal/common"
	"github.com/aleister1102/urlstripper/internal/options"
	"github.com/aleister1102/urlstripper/internal/rules"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// RulesHandler shows the active rules and, for writable backends, replaces
// the stored rule strings.
type RulesHandler struct {
	provider options.Provider
	writer   options.Writer
	logger   zerolog.Logger
}

type queryRuleView struct {
	Kind  string `json:"kind"`
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
}

type rulesResponse struct {
	RemovePatterns   string          `json:"remove_patterns"`
	FragmentPatterns string          `json:"fragment_patterns"`
	QueryRules       []queryRuleView `json:"query_rules"`
	FragmentRules    []string        `json:"fragment_rules"`
	Writable         bool            `json:"writable"`
}

type rulesUpdateRequest struct {
	RemovePatterns   *string `json:"remove_patterns"`
	FragmentPatterns *string `json:"fragment_patterns"`
}

// NewRulesHandler creates the handler. Updates are accepted only when
// provider also implements options.Writer.
func NewRulesHandler(provider options.Provider, logger zerolog.Logger) *RulesHandler {
	h := &RulesHandler{
		provider: provider,
		logger:   logger.With().Str("component", "RulesHandler").Logger(),
	}
	if w, ok := provider.(options.Writer); ok {
		h.writer = w
	}
	return h
}

func (h *RulesHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/rules", h.Get)
	g.PUT("/rules", h.Update)
}

func (h *RulesHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, h.view())
}

func (h *RulesHandler) Update(c echo.Context) error {
	if h.writer == nil {
		return writeError(c, common.ErrReadOnlyOptions)
	}

	var req rulesUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	if req.RemovePatterns == nil && req.FragmentPatterns == nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "remove_patterns or fragment_patterns is required"})
	}

	ctx := c.Request().Context()
	if req.RemovePatterns != nil {
		if err := h.writer.SetString(ctx, options.QueryRulesKey, *req.RemovePatterns); err != nil {
			h.logger.Error().Err(err).Str("key", options.QueryRulesKey).Msg("Failed to save option")
			return writeError(c, err)
		}
	}
	if req.FragmentPatterns != nil {
		if err := h.writer.SetString(ctx, options.FragmentRulesKey, *req.FragmentPatterns); err != nil {
			h.logger.Error().Err(err).Str("key", options.FragmentRulesKey).Msg("Failed to save option")
			return writeError(c, err)
		}
	}

	h.logger.Info().Msg("Rules updated")
	return c.JSON(http.StatusOK, h.view())
}

func (h *RulesHandler) view() rulesResponse {
	rawQuery, rawFragment := options.DefaultQueryRules, options.DefaultFragmentRules
	if h.provider != nil {
		rawQuery = h.provider.GetString(options.QueryRulesKey, options.DefaultQueryRules)
		rawFragment = h.provider.GetString(options.FragmentRulesKey, options.DefaultFragmentRules)
	}
	rs := rules.Parse(rawQuery, rawFragment)

	resp := rulesResponse{
		RemovePatterns:   rawQuery,
		FragmentPatterns: rawFragment,
		QueryRules:       make([]queryRuleView, 0, len(rs.Query)),
		FragmentRules:    make([]string, 0, len(rs.Fragment)),
		Writable:         h.writer != nil,
	}
	for _, r := range rs.Query {
		resp.QueryRules = append(resp.QueryRules, queryRuleView{Kind: r.Kind.String(), Key: r.Key, Value: r.Value})
	}
	for _, r := range rs.Fragment {
		resp.FragmentRules = append(resp.FragmentRules, r.Pattern)
	}
	return resp
}
