package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mdourados/foodcourt/internal/hash"
	mwauth "github.com/mdourados/foodcourt/internal/middleware/auth"
	"github.com/mdourados/foodcourt/internal/models"
	"github.com/mdourados/foodcourt/internal/mykafka"
	"github.com/mdourados/foodcourt/internal/notify"
)

type testEnv struct {
	T   *testing.T
	E   *echo.Echo
	DB  *gorm.DB
	Hub *notify.Hub

	Auth          *AuthHandler
	Users         *UserHandler
	Addresses     *AddressHandler
	Categories    *CategoryHandler
	Items         *ItemHandler
	Orders        *OrderHandler
	Notifications *NotificationHandler

	JWTSecret, RefreshSecret []byte
}

func InitTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{}, &models.Address{}, &models.Category{}, &models.Item{},
		&models.Order{}, &models.OrderItem{}, &models.Notification{}, &models.RefreshToken{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	db := InitTestDB(t)
	hub := notify.NewHub()
	producer := &mykafka.Producer{}

	env := &testEnv{
		T:             t,
		E:             echo.New(),
		DB:            db,
		Hub:           hub,
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}

	env.Auth = &AuthHandler{DB: db, JWTSecret: env.JWTSecret, RefreshSecret: env.RefreshSecret, Producer: producer}
	env.Users = &UserHandler{DB: db, Producer: producer}
	env.Addresses = &AddressHandler{DB: db}
	env.Categories = &CategoryHandler{DB: db, Producer: producer}
	env.Items = &ItemHandler{DB: db, Producer: producer}
	env.Orders = &OrderHandler{DB: db, Producer: producer, Hub: hub}
	env.Notifications = &NotificationHandler{DB: db, Hub: hub}
	return env
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

// asUser simulates what RequireAuth puts on the context.
func asUser(c echo.Context, id uint, role string) {
	c.Set(mwauth.CtxUserID, strconv.Itoa(int(id)))
	c.Set(mwauth.CtxRole, role)
}

func withID(c echo.Context, id uint) {
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(id)))
}

func seedUser(t *testing.T, env *testEnv, email, userType string) *models.User {
	t.Helper()
	pwHash, err := hash.HashPassword("password")
	require.NoError(t, err)

	user := models.User{
		Name:         "Test User",
		Email:        email,
		Phone:        "11999990000",
		PasswordHash: pwHash,
		Type:         userType,
	}
	require.NoError(t, env.DB.Create(&user).Error)
	return &user
}

func seedAddress(t *testing.T, env *testEnv, userID uint) *models.Address {
	t.Helper()
	address := models.Address{
		Street:   "Rua das Flores",
		Number:   "123",
		District: "Centro",
		City:     "Sao Paulo",
		State:    "SP",
		ZipCode:  "01001-000",
		UserID:   userID,
	}
	require.NoError(t, env.DB.Create(&address).Error)
	return &address
}

func seedCategory(t *testing.T, env *testEnv, name string) *models.Category {
	t.Helper()
	category := models.Category{Name: name, Description: name + " dishes"}
	require.NoError(t, env.DB.Create(&category).Error)
	return &category
}

func seedItem(t *testing.T, env *testEnv, categoryID uint, name string, price float64, available bool) *models.Item {
	t.Helper()
	item := models.Item{
		Name:       name,
		UnitPrice:  price,
		CategoryID: categoryID,
		Available:  available,
	}
	require.NoError(t, env.DB.Create(&item).Error)
	return &item
}

func requireHTTPError(t *testing.T, err error, code int) *echo.HTTPError {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError, got %v", err)
	require.Equal(t, code, he.Code)
	return he
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func validationMessages(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	decodeBody(t, rec, &resp)
	require.NotEmpty(t, resp.Errors)

	messages := make([]string, 0, len(resp.Errors))
	for _, e := range resp.Errors {
		messages = append(messages, e.Message)
	}
	return messages
}

func orderPath(id uint) string {
	return fmt.Sprintf("/orders/%d", id)
}
