package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/mdourados/foodcourt/internal/handlers"
	mwauth "github.com/mdourados/foodcourt/internal/middleware/auth"
)

type Deps struct {
	JWTSecret           []byte
	AuthHandler         *handlers.AuthHandler
	UserHandler         *handlers.UserHandler
	AddressHandler      *handlers.AddressHandler
	CategoryHandler     *handlers.CategoryHandler
	ItemHandler         *handlers.ItemHandler
	OrderHandler        *handlers.OrderHandler
	NotificationHandler *handlers.NotificationHandler
	SearchHandler       *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	requireAuth := mwauth.RequireAuth(d.JWTSecret)
	requireAdmin := mwauth.RequireAdmin()

	auth := e.Group("/auth")
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh", d.AuthHandler.Refresh)
	auth.POST("/logout", d.AuthHandler.Logout)
	auth.GET("/profile", d.AuthHandler.Profile, requireAuth)

	// public signup, but an authenticated admin may create ADMIN accounts
	e.POST("/users", d.UserHandler.CreateUser, mwauth.OptionalAuth(d.JWTSecret))
	users := e.Group("/users", requireAuth)
	users.GET("", d.UserHandler.GetUsers, requireAdmin)
	users.GET("/:id", d.UserHandler.GetUser)
	users.PATCH("", d.UserHandler.UpdateUser)
	users.DELETE("", d.UserHandler.DeleteUser)

	addresses := e.Group("/addresses", requireAuth)
	addresses.GET("", d.AddressHandler.GetAddresses)
	addresses.POST("", d.AddressHandler.CreateAddress)
	addresses.PATCH("/:id", d.AddressHandler.UpdateAddress)
	addresses.DELETE("/:id", d.AddressHandler.DeleteAddress)

	e.GET("/categories", d.CategoryHandler.GetCategories)
	categories := e.Group("/categories", requireAuth, requireAdmin)
	categories.POST("", d.CategoryHandler.CreateCategory)
	categories.PATCH("/:id", d.CategoryHandler.UpdateCategory)
	categories.DELETE("/:id", d.CategoryHandler.DeleteCategory)

	e.GET("/items", d.ItemHandler.GetItems)
	e.GET("/items/search", d.SearchHandler.SearchItems)
	e.GET("/items/:id", d.ItemHandler.GetItem)
	items := e.Group("/items", requireAuth, requireAdmin)
	items.POST("", d.ItemHandler.CreateItem)
	items.PATCH("/:id", d.ItemHandler.UpdateItem)
	items.DELETE("/:id", d.ItemHandler.DeleteItem)

	orders := e.Group("/orders", requireAuth)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("", d.OrderHandler.GetOrders, requireAdmin)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.GET("/client/:id", d.OrderHandler.GetOrdersByClient)
	orders.PATCH("/:id", d.OrderHandler.UpdateOrder, requireAdmin)
	orders.DELETE("/:id", d.OrderHandler.DeleteOrder, requireAdmin)

	notifications := e.Group("/notifications", requireAuth)
	notifications.GET("", d.NotificationHandler.GetNotifications)
	notifications.GET("/stream", d.NotificationHandler.Stream)
	notifications.POST("/read", d.NotificationHandler.MarkRead)
	notifications.POST("/read-all", d.NotificationHandler.MarkAllRead)
}
