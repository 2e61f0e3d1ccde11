package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type NotificationHandler struct {
	notifier *usecase.Notifier
}

// DI
func NewNotificationHandler(notifier *usecase.Notifier) *NotificationHandler {
	return &NotificationHandler{notifier: notifier}
}

func (h *NotificationHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/notification", h.current)
	e.DELETE("/notification", h.dismiss)
}

func (h *NotificationHandler) current(c echo.Context) error {
	return c.JSON(http.StatusOK, h.notifier.Current())
}

// 閉じるボタン
func (h *NotificationHandler) dismiss(c echo.Context) error {
	h.notifier.Dismiss()
	return c.NoContent(http.StatusNoContent)
}
