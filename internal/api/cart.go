package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vendormart/vendormart/internal/domain"
	"github.com/vendormart/vendormart/internal/webserver"
)

type addCartPayload struct {
	ProductID int64 `json:"productId,string"`
	SizeID    int64 `json:"sizeId,string"`
}

type updateCartPayload struct {
	ProductID int64 `json:"productId,string"`
	SizeID    int64 `json:"sizeId,string"`
	Qty       int   `json:"qty"`
}

// registerCartRoutes registers the cart surface. Every route requires a
// bearer token; the cart is always the caller's own.
func registerCartRoutes() {
	webserver.ApiPOST("/cart/addProduct", addCartProduct)
	webserver.ApiPOST("/cart/updateCart", updateCartProduct)
	webserver.ApiGET("/cart/showMyCart", showMyCart)
	webserver.ApiDELETE("/cart/decreaseQTY/:id", decreaseCartProduct)
	webserver.ApiDELETE("/cart/increaseQTY/:id", increaseCartProduct)
	webserver.ApiDELETE("/cart/removeProduct/:id", removeCartProduct)
}

// itemsView shapes the {total, productlist} body of the line-level ops.
func itemsView(cart *domain.Cart) echo.Map {
	return echo.Map{"total": cart.Total, "productlist": cart.Items}
}

func addCartProduct(c echo.Context) error {
	var payload addCartPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Product ID and Size ID are required", nil)
	}
	claims := webserver.GetClaims(c)

	cart, err := cartSvc.AddItem(c.Request().Context(), claims.Mobile, payload.ProductID, payload.SizeID)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, http.StatusOK, "Product added to cart", cart)
}

func showMyCart(c echo.Context) error {
	claims := webserver.GetClaims(c)
	cart, err := cartSvc.Get(c.Request().Context(), claims.Mobile)
	if err != nil {
		return failErr(c, err)
	}
	if len(cart.Items) == 0 {
		return ok(c, http.StatusOK, "Cart is empty", itemsView(cart))
	}
	return ok(c, http.StatusOK, "Cart retrieved successfully", cart)
}

func updateCartProduct(c echo.Context) error {
	var payload updateCartPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Validation Error", nil)
	}
	claims := webserver.GetClaims(c)

	cart, err := cartSvc.SetQuantity(c.Request().Context(), claims.Mobile, payload.ProductID, payload.SizeID, payload.Qty)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, http.StatusOK, "Cart updated successfully", cart)
}

func decreaseCartProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid cart item ID", nil)
	}
	claims := webserver.GetClaims(c)

	cart, err := cartSvc.DecrementOrRemove(c.Request().Context(), claims.Mobile, id)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, http.StatusOK, "Product quantity decreased", itemsView(cart))
}

func increaseCartProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid cart item ID", nil)
	}
	claims := webserver.GetClaims(c)

	cart, err := cartSvc.Increment(c.Request().Context(), claims.Mobile, id)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, http.StatusOK, "Product quantity increased", itemsView(cart))
}

func removeCartProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid cart item ID", nil)
	}
	claims := webserver.GetClaims(c)

	cart, err := cartSvc.RemoveItem(c.Request().Context(), claims.Mobile, id)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, http.StatusOK, "Product removed from cart", itemsView(cart))
}
