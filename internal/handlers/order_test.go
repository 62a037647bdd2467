package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mdourados/foodcourt/internal/models"
	"github.com/mdourados/foodcourt/internal/notify"
)

type orderFixture struct {
	env     *testEnv
	client  *models.User
	address *models.Address
	burger  *models.Item
	fries   *models.Item
}

func newOrderFixture(t *testing.T) *orderFixture {
	env := newTestEnv(t)
	client := seedUser(t, env, "maria@example.com", models.UserClient)
	address := seedAddress(t, env, client.ID)
	category := seedCategory(t, env, "Burgers")
	return &orderFixture{
		env:     env,
		client:  client,
		address: address,
		burger:  seedItem(t, env, category.ID, "Cheeseburger", 10.00, true),
		fries:   seedItem(t, env, category.ID, "Fries", 5.50, true),
	}
}

func (f *orderFixture) createPayload() map[string]any {
	return map[string]any{
		"clientId":      f.client.ID,
		"addressId":     f.address.ID,
		"paymentMethod": models.PaymentPix,
		"totalAmount":   25.50,
		"items": []map[string]any{
			{"itemId": f.burger.ID, "quantity": 2},
			{"itemId": f.fries.ID, "quantity": 1},
		},
	}
}

func (f *orderFixture) placeOrder(t *testing.T) models.Order {
	t.Helper()
	rec, c := f.env.doJSONRequest(http.MethodPost, "/orders", f.createPayload())
	asUser(c, f.client.ID, models.UserClient)

	require.NoError(t, f.env.Orders.CreateOrder(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Order models.Order `json:"order"`
	}
	decodeBody(t, rec, &resp)
	return resp.Order
}

func TestCreateOrder(t *testing.T) {
	f := newOrderFixture(t)
	order := f.placeOrder(t)

	require.Equal(t, models.OrderPending, order.Status)
	require.Equal(t, f.client.ID, order.ClientID)
	require.InDelta(t, 25.50, order.TotalAmount, 0.001)
	require.Len(t, order.Items, 2)
	require.InDelta(t, 20.00, order.Items[0].Subtotal, 0.001)
	require.InDelta(t, 5.50, order.Items[1].Subtotal, 0.001)
}

func TestOrderLinesFrozenAgainstPriceChanges(t *testing.T) {
	f := newOrderFixture(t)
	order := f.placeOrder(t)

	// the kitchen reprices the burger after the order was placed
	require.NoError(t, f.env.DB.Model(&models.Item{}).
		Where("id = ?", f.burger.ID).Update("unit_price", 99.99).Error)

	rec, c := f.env.doJSONRequest(http.MethodGet, orderPath(order.ID), nil)
	asUser(c, f.client.ID, models.UserClient)
	withID(c, order.ID)
	require.NoError(t, f.env.Orders.GetOrder(c))

	var resp struct {
		Order models.Order `json:"order"`
	}
	decodeBody(t, rec, &resp)
	require.InDelta(t, 10.00, resp.Order.Items[0].UnitPrice, 0.001)
	require.InDelta(t, 25.50, resp.Order.TotalAmount, 0.001)
}

func TestCreateOrderTotalMismatch(t *testing.T) {
	f := newOrderFixture(t)

	payload := f.createPayload()
	payload["totalAmount"] = 19.99

	_, c := f.env.doJSONRequest(http.MethodPost, "/orders", payload)
	asUser(c, f.client.ID, models.UserClient)

	err := f.env.Orders.CreateOrder(c)
	he := requireHTTPError(t, err, http.StatusUnprocessableEntity)
	require.Equal(t, "total amount mismatch", he.Message)

	var count int64
	require.NoError(t, f.env.DB.Model(&models.Order{}).Count(&count).Error)
	require.Zero(t, count, "rejected orders leave nothing behind")
}

func TestCreateOrderUnavailableItem(t *testing.T) {
	f := newOrderFixture(t)
	require.NoError(t, f.env.DB.Model(&models.Item{}).
		Where("id = ?", f.fries.ID).Update("available", false).Error)

	payload := f.createPayload()
	_, c := f.env.doJSONRequest(http.MethodPost, "/orders", payload)
	asUser(c, f.client.ID, models.UserClient)

	requireHTTPError(t, f.env.Orders.CreateOrder(c), http.StatusUnprocessableEntity)

	var count int64
	require.NoError(t, f.env.DB.Model(&models.OrderItem{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestCreateOrderForeignAddress(t *testing.T) {
	f := newOrderFixture(t)
	other := seedUser(t, f.env, "joao@example.com", models.UserClient)
	theirs := seedAddress(t, f.env, other.ID)

	payload := f.createPayload()
	payload["addressId"] = theirs.ID

	_, c := f.env.doJSONRequest(http.MethodPost, "/orders", payload)
	asUser(c, f.client.ID, models.UserClient)

	err := f.env.Orders.CreateOrder(c)
	he := requireHTTPError(t, err, http.StatusUnprocessableEntity)
	require.Equal(t, "address does not belong to client", he.Message)
}

func TestCreateOrderForAnotherClient(t *testing.T) {
	f := newOrderFixture(t)
	other := seedUser(t, f.env, "joao@example.com", models.UserClient)

	payload := f.createPayload()
	payload["clientId"] = f.client.ID

	// another client may not order on maria's behalf
	_, c := f.env.doJSONRequest(http.MethodPost, "/orders", payload)
	asUser(c, other.ID, models.UserClient)
	requireHTTPError(t, f.env.Orders.CreateOrder(c), http.StatusForbidden)

	// an admin may
	admin := seedUser(t, f.env, "admin@example.com", models.UserAdmin)
	rec, cAdmin := f.env.doJSONRequest(http.MethodPost, "/orders", payload)
	asUser(cAdmin, admin.ID, models.UserAdmin)
	require.NoError(t, f.env.Orders.CreateOrder(cAdmin))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Order models.Order `json:"order"`
	}
	decodeBody(t, rec, &resp)
	require.Equal(t, f.client.ID, resp.Order.ClientID)
	require.Equal(t, admin.ID, resp.Order.CreatedByUserID)
}

func TestCreateOrderRejectsUnknownPaymentMethod(t *testing.T) {
	f := newOrderFixture(t)

	payload := f.createPayload()
	payload["paymentMethod"] = "BITCOIN"

	rec, c := f.env.doJSONRequest(http.MethodPost, "/orders", payload)
	asUser(c, f.client.ID, models.UserClient)

	require.NoError(t, f.env.Orders.CreateOrder(c))
	messages := validationMessages(t, rec)
	require.Contains(t, messages, "paymentMethod must be one of: CASH DEBIT_CARD CREDIT_CARD PIX")
}

func updateStatus(t *testing.T, f *orderFixture, orderID uint, status string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	rec, c := f.env.doJSONRequest(http.MethodPatch, orderPath(orderID), map[string]string{"status": status})
	asUser(c, 99, models.UserAdmin)
	withID(c, orderID)
	return rec, f.env.Orders.UpdateOrder(c)
}

func TestOrderStatusTransitions(t *testing.T) {
	f := newOrderFixture(t)
	order := f.placeOrder(t)

	rec, err := updateStatus(t, f, order.ID, models.OrderConfirmed)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, err = updateStatus(t, f, order.ID, models.OrderDelivered)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	// DELIVERED is terminal
	rec, err = updateStatus(t, f, order.ID, models.OrderCanceled)
	require.NoError(t, err)
	messages := validationMessages(t, rec)
	require.Contains(t, messages, "cannot change status from DELIVERED to CANCELED")
}

func TestOrderCannotSkipConfirmation(t *testing.T) {
	f := newOrderFixture(t)
	order := f.placeOrder(t)

	rec, err := updateStatus(t, f, order.ID, models.OrderDelivered)
	require.NoError(t, err)
	messages := validationMessages(t, rec)
	require.Contains(t, messages, "cannot change status from PENDING to DELIVERED")
}

func TestStatusChangeNotifiesClient(t *testing.T) {
	f := newOrderFixture(t)
	order := f.placeOrder(t)

	events, cancel := f.env.Hub.Subscribe(f.client.ID)
	defer cancel()

	_, err := updateStatus(t, f, order.ID, models.OrderConfirmed)
	require.NoError(t, err)

	var stored models.Notification
	require.NoError(t, f.env.DB.Where("user_id = ?", f.client.ID).First(&stored).Error)
	require.Equal(t, "Your order was confirmed", stored.Title)
	require.False(t, stored.Read)

	first := <-events
	require.Equal(t, notify.EventNewNotification, first.Type)
	second := <-events
	require.Equal(t, notify.EventUnreadCount, second.Type)
	require.Equal(t, map[string]int64{"count": 1}, second.Payload)
}

func TestGetOrderHiddenFromOtherClients(t *testing.T) {
	f := newOrderFixture(t)
	order := f.placeOrder(t)
	other := seedUser(t, f.env, "joao@example.com", models.UserClient)

	_, c := f.env.doJSONRequest(http.MethodGet, orderPath(order.ID), nil)
	asUser(c, other.ID, models.UserClient)
	withID(c, order.ID)

	requireHTTPError(t, f.env.Orders.GetOrder(c), http.StatusNotFound)
}

func TestGetOrdersByClientClampsPage(t *testing.T) {
	f := newOrderFixture(t)
	f.placeOrder(t)

	rec, c := f.env.doJSONRequest(http.MethodGet, "/orders/client/1?page=0", nil)
	asUser(c, f.client.ID, models.UserClient)
	withID(c, f.client.ID)
	require.NoError(t, f.env.Orders.GetOrdersByClient(c))

	var resp struct {
		Data []models.Order `json:"data"`
		Meta map[string]any `json:"meta"`
	}
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Data, 1)
	require.EqualValues(t, 1, resp.Meta["page"])
	require.Equal(t, false, resp.Meta["has_next"])
}

func TestGetOrdersByClientScope(t *testing.T) {
	f := newOrderFixture(t)
	f.placeOrder(t)
	other := seedUser(t, f.env, "joao@example.com", models.UserClient)

	// own history works
	rec, c := f.env.doJSONRequest(http.MethodGet, "/orders/client/1", nil)
	asUser(c, f.client.ID, models.UserClient)
	withID(c, f.client.ID)
	require.NoError(t, f.env.Orders.GetOrdersByClient(c))

	var resp struct {
		Data []models.Order `json:"data"`
	}
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Data, 1)

	// someone else's history does not
	_, cOther := f.env.doJSONRequest(http.MethodGet, "/orders/client/1", nil)
	asUser(cOther, other.ID, models.UserClient)
	withID(cOther, f.client.ID)
	requireHTTPError(t, f.env.Orders.GetOrdersByClient(cOther), http.StatusForbidden)
}

func TestDeleteOrderRemovesLines(t *testing.T) {
	f := newOrderFixture(t)
	order := f.placeOrder(t)

	rec, c := f.env.doJSONRequest(http.MethodDelete, orderPath(order.ID), nil)
	asUser(c, 99, models.UserAdmin)
	withID(c, order.ID)

	require.NoError(t, f.env.Orders.DeleteOrder(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	for _, model := range []any{&models.Order{}, &models.OrderItem{}} {
		var count int64
		require.NoError(t, f.env.DB.Model(model).Count(&count).Error)
		require.Zero(t, count)
	}
}
