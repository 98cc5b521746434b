package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/araddon/dateparse"
	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"github.com/vendormart/vendormart/internal/domain"
	"github.com/vendormart/vendormart/internal/order"
	"github.com/vendormart/vendormart/internal/webserver"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type createOrderPayload struct {
	Remark string `json:"remark"`
}

func registerOrderRoutes() {
	webserver.ApiPOST("/order/create", createOrder)
	webserver.ApiGET("/order/myOrders", myOrders)
	webserver.ApiGET("/order/export", exportOrders)
	webserver.ApiGET("/order/stats", orderStats)
}

func createOrder(c echo.Context) error {
	var payload createOrderPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse order request", nil)
	}
	claims := webserver.GetClaims(c)

	o, err := orderSvc.Create(c.Request().Context(), claims.Mobile, payload.Remark)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, http.StatusCreated, "Order created successfully", o)
}

// parseOrderQuery collects keyword, status, pagination and the optional
// from/to date bounds. Dates accept any common format.
func parseOrderQuery(c echo.Context) (order.Query, error) {
	page, limit := parsePagination(c)
	q := order.Query{
		Keyword: c.QueryParam("keyword"),
		Status:  c.QueryParam("status"),
		Page:    page,
		Limit:   limit,
	}
	if v := c.QueryParam("from"); v != "" {
		t, err := dateparse.ParseLocal(v)
		if err != nil {
			return q, err
		}
		q.From = &t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := dateparse.ParseLocal(v)
		if err != nil {
			return q, err
		}
		q.To = &t
	}
	return q, nil
}

func myOrders(c echo.Context) error {
	q, err := parseOrderQuery(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid date filter", nil)
	}
	claims := webserver.GetClaims(c)

	page, err := orderSvc.List(c.Request().Context(), claims.Mobile, q)
	if err != nil {
		return failErr(c, err)
	}
	if page.TotalDocs == 0 {
		return ok(c, http.StatusOK, "No orders found", page)
	}
	return ok(c, http.StatusOK, "Orders fetched successfully", page)
}

func exportOrders(c echo.Context) error {
	q, err := parseOrderQuery(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid date filter", nil)
	}
	claims := webserver.GetClaims(c)

	rows, err := orderSvc.ExportRows(c.Request().Context(), claims.Mobile, q)
	if err != nil {
		return failErr(c, err)
	}

	switch c.QueryParam("format") {
	case "", "csv":
		return writeCsvExport(c, rows)
	case "xlsx":
		return writeExcelExport(c, rows)
	default:
		return fail(c, http.StatusBadRequest, "Unsupported export format", nil)
	}
}

func writeCsvExport(c echo.Context, rows []order.ExportRow) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="orders.csv"`)
	c.Response().WriteHeader(http.StatusOK)
	return gocsv.Marshal(&rows, c.Response())
}

var exportHeader = []string{
	"Order ID", "Status", "Created At", "Remark",
	"Product", "Size", "Qty", "Price", "Subtotal", "Order Total",
}

func writeExcelExport(c echo.Context, rows []order.ExportRow) error {
	money := message.NewPrinter(language.English)
	f := excelize.NewFile()
	for i, h := range exportHeader {
		f.SetCellValue("Sheet1", excelize.ToAlphaString(i)+"1", h)
	}
	for i, r := range rows {
		axis := strconv.Itoa(i + 2)
		f.SetCellValue("Sheet1", "A"+axis, r.OrderID)
		f.SetCellValue("Sheet1", "B"+axis, r.Status)
		f.SetCellValue("Sheet1", "C"+axis, r.CreatedAt)
		f.SetCellValue("Sheet1", "D"+axis, r.Remark)
		f.SetCellValue("Sheet1", "E"+axis, r.ProductName)
		f.SetCellValue("Sheet1", "F"+axis, r.Size)
		f.SetCellValue("Sheet1", "G"+axis, r.Qty)
		f.SetCellValue("Sheet1", "H"+axis, money.Sprintf("%.2f", r.Price))
		f.SetCellValue("Sheet1", "I"+axis, money.Sprintf("%.2f", r.Subtotal))
		f.SetCellValue("Sheet1", "J"+axis, money.Sprintf("%.2f", r.OrderTotal))
	}

	name := "orders_" + time.Now().Format("20060102150405") + ".xlsx"
	c.Response().Header().Set(echo.HeaderContentType,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	c.Response().WriteHeader(http.StatusOK)
	return f.Write(c.Response())
}

func orderStats(c echo.Context) error {
	q, err := parseOrderQuery(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid date filter", nil)
	}
	claims := webserver.GetClaims(c)

	summary, err := orderSvc.Summary(c.Request().Context(), claims.Mobile, q)
	if err != nil {
		return failErr(c, err)
	}
	counts, err := orderSvc.StatusCounts(c.Request().Context(), claims.Mobile)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, http.StatusOK, "Order stats fetched successfully", echo.Map{
		"summary": summary,
		"statusCounts": echo.Map{
			"pending":        counts[domain.OrderStatusPending],
			"accepted":       counts[domain.OrderStatusAccepted],
			"cancelled":      counts[domain.OrderStatusCancelled],
			"outForDelivery": counts[domain.OrderStatusDelivery],
			"delivered":      counts[domain.OrderStatusDelivered],
		},
	})
}
