package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	mwauth "github.com/mdourados/foodcourt/internal/middleware/auth"
	"github.com/mdourados/foodcourt/internal/models"
	"github.com/mdourados/foodcourt/internal/mykafka"
	"github.com/mdourados/foodcourt/internal/notify"
	"github.com/mdourados/foodcourt/internal/util"
	"github.com/mdourados/foodcourt/internal/validate"
)

type OrderHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	Hub      *notify.Hub
}

type orderLineRequest struct {
	ItemID    uint    `json:"itemId"    validate:"required"`
	Quantity  uint    `json:"quantity"  validate:"required,min=1"`
	UnitPrice float64 `json:"unitPrice"`
	Subtotal  float64 `json:"subtotal"`
}

type createOrderRequest struct {
	ClientID      uint               `json:"clientId"      validate:"required"`
	AddressID     uint               `json:"addressId"     validate:"required"`
	PaymentMethod string             `json:"paymentMethod" validate:"required,oneof=CASH DEBIT_CARD CREDIT_CARD PIX"`
	TotalAmount   float64            `json:"totalAmount"`
	Items         []orderLineRequest `json:"items"         validate:"required,min=1,dive"`
}

type updateOrderRequest struct {
	Status *string `json:"status" validate:"omitempty,oneof=PENDING CONFIRMED DELIVERED CANCELED"`
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	callerID, err := mwauth.UserID(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if errs := validate.Struct(req); errs != nil {
		return validationError(c, errs)
	}
	if req.ClientID != callerID && !mwauth.IsAdmin(c) {
		return echo.NewHTTPError(http.StatusForbidden, "cannot order for another client")
	}

	var order models.Order
	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		var address models.Address
		if err := tx.Where("id = ? AND user_id = ?", req.AddressID, req.ClientID).
			First(&address).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return echo.NewHTTPError(http.StatusUnprocessableEntity, "address does not belong to client")
			}
			return err
		}

		// Lines are priced from the catalog at this moment and frozen;
		// client-sent prices are only cross-checked.
		var total float64
		lines := make([]models.OrderItem, 0, len(req.Items))
		for _, line := range req.Items {
			var item models.Item
			if err := tx.First(&item, line.ItemID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return echo.NewHTTPError(http.StatusUnprocessableEntity, "item not found")
				}
				return err
			}
			if !item.Available {
				return echo.NewHTTPError(http.StatusUnprocessableEntity,
					fmt.Sprintf("item %q is not available", item.Name))
			}
			subtotal := float64(line.Quantity) * item.UnitPrice
			total += subtotal
			lines = append(lines, models.OrderItem{
				ItemID:    item.ID,
				Quantity:  line.Quantity,
				UnitPrice: item.UnitPrice,
				Subtotal:  subtotal,
			})
		}

		if req.TotalAmount != 0 && math.Abs(req.TotalAmount-total) > 0.009 {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "total amount mismatch")
		}

		order = models.Order{
			ClientID:        req.ClientID,
			CreatedByUserID: callerID,
			AddressID:       req.AddressID,
			PaymentMethod:   req.PaymentMethod,
			Status:          models.OrderPending,
			TotalAmount:     total,
			Items:           lines,
		}
		return tx.Create(&order).Error
	})
	if txErr != nil {
		var he *echo.HTTPError
		if errors.As(txErr, &he) {
			return he
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create order")
	}

	publish(c, h.Producer, "order_events", strconv.Itoa(int(order.ID)), map[string]any{
		"type":     "order_created",
		"orderID":  order.ID,
		"clientID": order.ClientID,
		"total":    order.TotalAmount,
	})

	return c.JSON(http.StatusCreated, echo.Map{"order": order})
}

func (h *OrderHandler) GetOrders(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("pageSize"), util.DefaultPageSize)
	page, offset, limit := util.Calculate(page, size)

	var total int64
	if err := h.DB.Model(&models.Order{}).Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	var orders []models.Order
	if err := h.DB.Preload("Items").Preload("Items.Item").Preload("Client").
		Order("id DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": orders,
		"meta": util.Meta(page, limit, total),
	})
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var order models.Order
	if err := h.DB.Preload("Items").Preload("Items.Item").Preload("Client").
		First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	if !mwauth.IsAdmin(c) {
		callerID, err := mwauth.UserID(c)
		if err != nil {
			return err
		}
		if order.ClientID != callerID {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"order": order})
}

func (h *OrderHandler) GetOrdersByClient(c echo.Context) error {
	clientID, err := idParam(c)
	if err != nil {
		return err
	}
	if !mwauth.IsAdmin(c) {
		callerID, err := mwauth.UserID(c)
		if err != nil {
			return err
		}
		if clientID != callerID {
			return echo.NewHTTPError(http.StatusForbidden, "cannot access another client's orders")
		}
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("pageSize"), util.DefaultPageSize)
	page, offset, limit := util.Calculate(page, size)

	var total int64
	if err := h.DB.Model(&models.Order{}).Where("client_id = ?", clientID).
		Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	var orders []models.Order
	if err := h.DB.Preload("Items").Preload("Items.Item").
		Where("client_id = ?", clientID).
		Order("id DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": orders,
		"meta": util.Meta(page, limit, total),
	})
}

func (h *OrderHandler) UpdateOrder(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req updateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if errs := validate.Struct(req); errs != nil {
		return validationError(c, errs)
	}
	if req.Status == nil {
		return validationMessage(c, "status is required")
	}

	var order models.Order
	if err := h.DB.Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	if !allowedTransition(order.Status, *req.Status) {
		return validationMessage(c,
			fmt.Sprintf("cannot change status from %s to %s", order.Status, *req.Status))
	}

	order.Status = *req.Status
	if err := h.DB.Save(&order).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not update order")
	}

	h.notifyStatusChange(c, &order)
	publish(c, h.Producer, "order_events", strconv.Itoa(int(order.ID)), map[string]any{
		"type":    "order_status_changed",
		"orderID": order.ID,
		"status":  order.Status,
	})

	return c.JSON(http.StatusOK, echo.Map{"order": order})
}

func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, id).Error
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not delete order")
	}

	publish(c, h.Producer, "order_events", strconv.Itoa(int(id)), map[string]any{
		"type":    "order_deleted",
		"orderID": id,
	})

	return c.NoContent(http.StatusNoContent)
}

func allowedTransition(from, to string) bool {
	for _, next := range models.StatusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

var statusTitles = map[string]string{
	models.OrderConfirmed: "Your order was confirmed",
	models.OrderDelivered: "Your order was delivered",
	models.OrderCanceled:  "Your order was canceled",
}

// notifyStatusChange stores a notification row for the client and pushes it
// on the realtime channel together with the fresh unread count.
func (h *OrderHandler) notifyStatusChange(c echo.Context, order *models.Order) {
	title := statusTitles[order.Status]
	if title == "" {
		title = "Your order was updated"
	}
	data, _ := json.Marshal(map[string]any{"orderId": order.ID, "status": order.Status})

	notification := models.Notification{
		UserID: order.ClientID,
		Title:  title,
		Body:   fmt.Sprintf("Order #%d is now %s", order.ID, order.Status),
		Data:   data,
	}
	if err := h.DB.Create(&notification).Error; err != nil {
		c.Logger().Errorf("create notification: %v", err)
		return
	}

	if h.Hub == nil {
		return
	}
	h.Hub.Publish(order.ClientID, notify.Event{
		Type:    notify.EventNewNotification,
		Payload: notification,
	})

	var unread int64
	if err := h.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", order.ClientID, false).
		Count(&unread).Error; err == nil {
		h.Hub.Publish(order.ClientID, notify.Event{
			Type:    notify.EventUnreadCount,
			Payload: map[string]int64{"count": unread},
		})
	}
}
