package server

import (
	"errors"
	"net/http"

	"github.com/aleister1102/urlstripper/internal/common"
	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrReadOnlyOptions):
		return c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, common.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
