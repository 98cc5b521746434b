package api

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"github.com/vendormart/vendormart/internal/domain"
	"go.uber.org/zap"
)

// ok writes the standard success envelope {status, message, data}.
func ok(c echo.Context, status int, message string, data interface{}) error {
	body := echo.Map{"status": status, "message": message}
	if data != nil {
		body["data"] = data
	}
	return c.JSON(status, body)
}

// fail writes the standard failure envelope.
func fail(c echo.Context, status int, message string, details interface{}) error {
	body := echo.Map{"status": status, "message": message}
	if details != nil {
		body["errors"] = details
	}
	return c.JSON(status, body)
}

// failErr maps a service error to its HTTP status. Internal failures
// are logged with their cause and reported generically.
func failErr(c echo.Context, err error) error {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return fail(c, http.StatusBadRequest, err.Error(), domain.FieldsOf(err))
	case domain.KindNotFound:
		return fail(c, http.StatusNotFound, err.Error(), nil)
	case domain.KindInvalidState:
		return fail(c, http.StatusBadRequest, err.Error(), nil)
	case domain.KindConflict:
		return fail(c, http.StatusConflict, err.Error(), nil)
	case domain.KindUnauthorized:
		return fail(c, http.StatusUnauthorized, err.Error(), nil)
	default:
		zap.L().Error("internal error", zap.String("uri", c.Request().RequestURI), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Internal Server Error", nil)
	}
}

// handleValidationError reports every violated field from the payload
// validator.
func handleValidationError(c echo.Context, err error) error {
	verrs, okCast := err.(validator.ValidationErrors)
	if !okCast {
		return fail(c, http.StatusBadRequest, "Validation Error", nil)
	}
	fields := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, domain.FieldError{
			Field:   fe.Field(),
			Message: "failed on rule '" + fe.Tag() + "'",
		})
	}
	return fail(c, http.StatusBadRequest, "Validation Error", fields)
}

func parsePagination(c echo.Context) (page, limit int) {
	page = cast.ToInt(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit = cast.ToInt(c.QueryParam("limit"))
	if limit < 1 {
		limit = 10
	}
	if limit > 500 {
		limit = 500
	}
	return page, limit
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
