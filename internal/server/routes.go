package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ルートを登録できるハンドラ
type RouteRegistrar interface {
	RegisterRoutes(e *echo.Echo)
}

type healthResponse struct {
	Status string `json:"status"`
}

func RegisterRoutes(e *echo.Echo, handlers ...RouteRegistrar) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, healthResponse{Status: "ok"})
	})

	for _, h := range handlers {
		h.RegisterRoutes(e)
	}
}
