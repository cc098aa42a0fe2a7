package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/qa-forum/internal/repository"
)

// NotificationHandler serves the authenticated user's notifications.
type NotificationHandler struct {
	Notifications *repository.NotificationRepo
}

func NewNotificationHandler(n *repository.NotificationRepo) *NotificationHandler {
	if n == nil {
		panic("nil repository passed to NewNotificationHandler")
	}
	return &NotificationHandler{Notifications: n}
}

// ListMine handles GET /v1/notifications. It returns the caller's
// notifications, newest first. Read state is not tracked here.
func (h *NotificationHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Notifications.ListByRecipient(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load notifications"})
	}
	resp := make([]notificationResp, 0, len(items))
	for _, n := range items {
		resp = append(resp, toNotificationResp(n))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": resp})
}
