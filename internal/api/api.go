// Package api exposes the HTTP operation surface: vendor auth, the
// product catalog, the per-vendor cart and order checkout.
package api

import (
	"time"

	"github.com/vendormart/vendormart/internal/app"
	"github.com/vendormart/vendormart/internal/cart"
	"github.com/vendormart/vendormart/internal/catalog"
	"github.com/vendormart/vendormart/internal/order"
	"github.com/vendormart/vendormart/internal/vendor"
)

var (
	appCtx    app.AppContext
	products  catalog.ProductRepository
	cartSvc   *cart.Service
	orderSvc  *order.Service
	vendorSvc *vendor.Service
	otpDisp   *vendor.Dispatcher
)

// Init builds the services on top of the application context and
// registers every route.
func Init(a app.AppContext, dispatcher *vendor.Dispatcher) {
	appCtx = a
	otpDisp = dispatcher

	vendorRepo := vendor.NewGormRepository(a.DB())
	cartRepo := cart.NewGormRepository(a.DB())
	orderRepo := order.NewGormRepository(a.DB())
	products = catalog.NewGormProductRepository(a.DB())

	cartSvc = cart.NewService(cartRepo, products, vendorRepo, a, a.Bus())
	orderSvc = order.NewService(orderRepo, cartRepo, a, a.Bus())
	vendorSvc = vendor.NewService(vendorRepo, dispatcher, a, a.Bus(),
		time.Duration(a.Config().Otp.TTL)*time.Second)

	registerVendorRoutes()
	registerProductRoutes()
	registerCartRoutes()
	registerOrderRoutes()
	registerSystemRoutes()
}
