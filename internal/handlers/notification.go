package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	mwauth "github.com/mdourados/foodcourt/internal/middleware/auth"
	"github.com/mdourados/foodcourt/internal/models"
	"github.com/mdourados/foodcourt/internal/notify"
)

type NotificationHandler struct {
	DB  *gorm.DB
	Hub *notify.Hub
}

func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	userID, err := mwauth.UserID(c)
	if err != nil {
		return err
	}

	var notifications []models.Notification
	if err := h.DB.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&notifications).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"notifications": notifications})
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	userID, err := mwauth.UserID(c)
	if err != nil {
		return err
	}

	var req struct {
		ID uint `json:"id"`
	}
	if err := c.Bind(&req); err != nil || req.ID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	result := h.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", req.ID, userID).
		Update("read", true)
	if result.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	if result.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "notification not found")
	}

	h.pushUnreadCount(userID)
	return c.JSON(http.StatusOK, echo.Map{"message": "notification read"})
}

func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	userID, err := mwauth.UserID(c)
	if err != nil {
		return err
	}

	if err := h.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	h.pushUnreadCount(userID)
	return c.JSON(http.StatusOK, echo.Map{"message": "all notifications read"})
}

// Stream is the SSE push channel: new_notification and unread_count events
// until the client disconnects.
func (h *NotificationHandler) Stream(c echo.Context) error {
	userID, err := mwauth.UserID(c)
	if err != nil {
		return err
	}
	if h.Hub == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "stream unavailable")
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set(echo.HeaderCacheControl, "no-cache")
	resp.Header().Set(echo.HeaderConnection, "keep-alive")
	resp.WriteHeader(http.StatusOK)

	events, cancel := h.Hub.Subscribe(userID)
	defer cancel()

	var unread int64
	if err := h.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&unread).Error; err == nil {
		writeEvent(resp, notify.Event{
			Type:    notify.EventUnreadCount,
			Payload: map[string]int64{"count": unread},
		})
	}

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if err := writeEvent(resp, ev); err != nil {
				return nil
			}
		}
	}
}

func writeEvent(resp *echo.Response, ev notify.Event) error {
	data, err := json.Marshal(ev.Payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(resp, "event: %s\ndata: %s\n\n", ev.Type, data); err != nil {
		return err
	}
	resp.Flush()
	return nil
}

func (h *NotificationHandler) pushUnreadCount(userID uint) {
	if h.Hub == nil {
		return
	}
	var unread int64
	if err := h.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&unread).Error; err != nil {
		return
	}
	h.Hub.Publish(userID, notify.Event{
		Type:    notify.EventUnreadCount,
		Payload: map[string]int64{"count": unread},
	})
}
