package api

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/vendormart/vendormart/internal/domain"
	"github.com/vendormart/vendormart/internal/webserver"
)

var productJSON = jsoniter.ConfigCompatibleWithStandardLibrary

type packSizePayload struct {
	ID                 int64   `json:"id,string"`
	Size               string  `json:"size" validate:"required,min=1,max=64"`
	PriceForWholesaler float64 `json:"priceForWholesaler" validate:"gte=0"`
	PriceForRetailer   float64 `json:"priceForRetailer" validate:"gte=0"`
}

type productPayload struct {
	ProductName        string            `json:"productName" validate:"required,min=1,max=200"`
	ProductDescription string            `json:"productDescription" validate:"required,min=1,max=2000"`
	Slug               string            `json:"slug" validate:"omitempty,max=200"`
	Status             string            `json:"status" validate:"omitempty,oneof=active inactive"`
	AvailablePackSizes []packSizePayload `json:"availablePackSizes" validate:"dive"`
}

// registerProductRoutes registers catalog endpoints. Reads are public,
// writes need a session.
func registerProductRoutes() {
	webserver.PubGET("/product/getAllProducts", getAllProducts)
	webserver.PubGET("/product/:id", getProductByID)
	webserver.ApiPOST("/product/addProduct", addProduct)
	webserver.ApiPUT("/product/:id", updateProduct)
	webserver.ApiDELETE("/product/:id", deleteProduct)
}

func getAllProducts(c echo.Context) error {
	list, err := products.List(c.Request().Context(), c.QueryParam("keyword"))
	if err != nil {
		return failErr(c, domain.ErrInternal(err, "Failed to query products"))
	}
	return ok(c, http.StatusOK, "Products fetched successfully", list)
}

func getProductByID(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid product ID", nil)
	}
	p, err := products.GetByID(c.Request().Context(), id)
	if err != nil {
		return failErr(c, domain.ErrInternal(err, "Failed to query product"))
	}
	if p == nil {
		return fail(c, http.StatusNotFound, "Product not found", nil)
	}
	return ok(c, http.StatusOK, "Product fetched successfully", p)
}

// saveUpload stores the main image under the uploads dir with a
// generated name and returns its public path.
func saveUpload(c echo.Context, field string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", err
	}
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := strconv.FormatInt(appCtx.NextID(), 10) + strings.ToLower(filepath.Ext(fh.Filename))
	dst, err := os.Create(filepath.Join(appCtx.Config().GetUploadDir(), name))
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}

func addProduct(c echo.Context) error {
	payload := productPayload{
		ProductName:        c.FormValue("productName"),
		ProductDescription: c.FormValue("productDescription"),
		Slug:               c.FormValue("slug"),
		Status:             c.FormValue("status"),
	}
	if raw := c.FormValue("availablePackSizes"); raw != "" {
		if err := productJSON.UnmarshalFromString(raw, &payload.AvailablePackSizes); err != nil {
			return fail(c, http.StatusBadRequest, "Invalid pack size list", nil)
		}
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	image, err := saveUpload(c, "productMainImage")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Missing required fields", nil)
	}

	p := domain.Product{
		ID:                 appCtx.NextID(),
		ProductName:        strings.TrimSpace(payload.ProductName),
		ProductDescription: payload.ProductDescription,
		ProductMainImage:   image,
		Slug:               payload.Slug,
		Status:             payload.Status,
	}
	if p.Status == "" {
		p.Status = "active"
	}
	for _, s := range payload.AvailablePackSizes {
		p.AvailablePackSizes = append(p.AvailablePackSizes, domain.PackSize{
			ID:                 appCtx.NextID(),
			ProductID:          p.ID,
			Size:               s.Size,
			PriceForWholesaler: s.PriceForWholesaler,
			PriceForRetailer:   s.PriceForRetailer,
		})
	}

	if err := products.Create(c.Request().Context(), &p); err != nil {
		return failErr(c, domain.ErrInternal(err, "Failed to create product"))
	}
	return ok(c, http.StatusCreated, "Product added successfully", p)
}

func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid product ID", nil)
	}
	p, err := products.GetByID(c.Request().Context(), id)
	if err != nil {
		return failErr(c, domain.ErrInternal(err, "Failed to query product"))
	}
	if p == nil {
		return fail(c, http.StatusNotFound, "Product not found", nil)
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse product", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	p.ProductName = strings.TrimSpace(payload.ProductName)
	p.ProductDescription = payload.ProductDescription
	if payload.Slug != "" {
		p.Slug = payload.Slug
	}
	if payload.Status != "" {
		p.Status = payload.Status
	}

	sizes := make([]domain.PackSize, 0, len(payload.AvailablePackSizes))
	for _, s := range payload.AvailablePackSizes {
		ps := domain.PackSize{
			ID:                 s.ID,
			ProductID:          p.ID,
			Size:               s.Size,
			PriceForWholesaler: s.PriceForWholesaler,
			PriceForRetailer:   s.PriceForRetailer,
		}
		if ps.ID == 0 {
			ps.ID = appCtx.NextID()
		}
		sizes = append(sizes, ps)
	}
	p.AvailablePackSizes = sizes

	if err := products.Update(c.Request().Context(), p); err != nil {
		return failErr(c, domain.ErrInternal(err, "Failed to update product"))
	}
	return ok(c, http.StatusOK, "Product updated successfully", p)
}

func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid product ID", nil)
	}
	p, err := products.GetByID(c.Request().Context(), id)
	if err != nil {
		return failErr(c, domain.ErrInternal(err, "Failed to query product"))
	}
	if p == nil {
		return fail(c, http.StatusNotFound, "Product not found", nil)
	}
	if err := products.Delete(c.Request().Context(), id); err != nil {
		return failErr(c, domain.ErrInternal(err, "Failed to delete product"))
	}
	return ok(c, http.StatusOK, "Product deleted successfully", echo.Map{"id": id})
}
