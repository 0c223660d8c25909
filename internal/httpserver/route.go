package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pvolkov/cart_service/internal/auth"
)

type Deps struct {
	CartHandler *CartHTTP
	JWTSecret   []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authMW := auth.NewMiddleware(d.JWTSecret)

	cart := e.Group("/cart")
	cart.Use(authMW.RequireAuth)

	cart.POST("", d.CartHandler.AddToCart)
	cart.GET("/:user_id", d.CartHandler.GetCart)
	cart.PUT("/:user_id/:item_id", d.CartHandler.UpdateItem)
	cart.DELETE("/:user_id/:item_id", d.CartHandler.DeleteItem)
	cart.DELETE("/:user_id", d.CartHandler.ClearCart)
}
