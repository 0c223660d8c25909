package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pvolkov/cart_service/internal/logging"
	"github.com/pvolkov/cart_service/internal/service"
	"github.com/pvolkov/cart_service/internal/transport"
)

type CartHTTP struct {
	Svc *service.CartService
}

func parseIDParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	var req transport.AddItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.Fail("invalid body"))
	}

	item, created, err := h.Svc.AddItem(ctx, req.UserID, req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("add_to_cart_error", "status", 400, "error", err)
			return c.JSON(http.StatusBadRequest, transport.Fail("quantity>0, user_id and product_id required"))
		case errors.Is(err, service.ErrConflict):
			l.Warn("add_to_cart_conflict", "status", 409, "error", err)
			return c.JSON(http.StatusConflict, transport.Fail("Cart is being modified, please retry"))
		default:
			l.Error("add_to_cart_error", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError, transport.Fail("Error adding product to cart"))
		}
	}

	if created {
		l.Info("product added to cart", "item_id", item.ID)
		return c.JSON(http.StatusCreated, transport.AddItemResponse{
			Success: true,
			Message: "Product added to cart",
			Data:    *item,
		})
	}
	l.Info("cart item quantity increased", "item_id", item.ID)
	return c.JSON(http.StatusOK, transport.AddItemResponse{
		Success: true,
		Message: "Cart updated (quantity increased)",
		Data:    *item,
	})
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_cart")

	userID, err := parseIDParam(c, "user_id")
	if err != nil {
		l.Warn("get_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.Fail("User id is not valid"))
	}

	cart, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_cart_empty", "status", 404, "user_id", userID)
			return c.JSON(http.StatusNotFound, transport.Fail("No items in cart for this user"))
		}
		l.Error("get_cart_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.Fail("Error retrieving cart"))
	}

	l.Info("cart retrieved", "user_id", userID, "items", len(cart.Items))
	return c.JSON(http.StatusOK, transport.CartResponse{
		Success: true,
		Message: "Cart retrieved successfully",
		Data:    *cart,
	})
}

func (h *CartHTTP) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_item")

	userID, err := parseIDParam(c, "user_id")
	if err != nil {
		l.Warn("update_item_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.Fail("User id is not valid"))
	}
	itemID, err := parseIDParam(c, "item_id")
	if err != nil {
		l.Warn("update_item_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.Fail("Cart item id is not valid"))
	}

	var req transport.UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_item_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.Fail("invalid body"))
	}

	entry, removed, err := h.Svc.UpdateQuantity(ctx, userID, itemID, req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("update_item_not_found", "status", 404, "item_id", itemID)
			return c.JSON(http.StatusNotFound, transport.Fail("Cart item not found for this user"))
		}
		l.Error("update_item_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.Fail("Error updating cart item"))
	}

	if removed {
		l.Info("cart item removed", "item_id", itemID)
		return c.JSON(http.StatusOK, transport.OK("Cart item removed"))
	}

	l.Info("cart item updated", "item_id", itemID, "quantity", entry.Quantity)
	return c.JSON(http.StatusOK, transport.UpdateItemResponse{
		Success: true,
		Message: "Cart item updated successfully",
		Data:    *entry,
	})
}

func (h *CartHTTP) DeleteItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.delete_item")

	userID, err := parseIDParam(c, "user_id")
	if err != nil {
		l.Warn("delete_item_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.Fail("User id is not valid"))
	}
	itemID, err := parseIDParam(c, "item_id")
	if err != nil {
		l.Warn("delete_item_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.Fail("Cart item id is not valid"))
	}

	if err := h.Svc.DeleteItem(ctx, userID, itemID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("delete_item_not_found", "status", 404, "item_id", itemID)
			return c.JSON(http.StatusNotFound, transport.Fail("Cart item not found for this user"))
		}
		l.Error("delete_item_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.Fail("Error deleting cart item"))
	}

	l.Info("cart item deleted", "item_id", itemID)
	return c.JSON(http.StatusOK, transport.OK("Cart item deleted successfully"))
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear_cart")

	userID, err := parseIDParam(c, "user_id")
	if err != nil {
		l.Warn("clear_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.Fail("User id is not valid"))
	}

	if err := h.Svc.ClearCart(ctx, userID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("clear_cart_empty", "status", 404, "user_id", userID)
			return c.JSON(http.StatusNotFound, transport.Fail("No cart items found for this user"))
		}
		l.Error("clear_cart_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.Fail("Error clearing cart"))
	}

	l.Info("cart cleared", "user_id", userID)
	return c.JSON(http.StatusOK, transport.OK("Cart cleared successfully"))
}
