package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/vendormart/vendormart/internal/domain"
	"github.com/vendormart/vendormart/internal/vendor"
	"github.com/vendormart/vendormart/internal/webserver"
)

const sessionTTL = 7 * 24 * time.Hour

type otpPayload struct {
	Mobile string `json:"mobile"`
	Otp    string `json:"otp"`
}

type loginPayload struct {
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

type changePasswordPayload struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type resetPasswordPayload struct {
	Mobile   string `json:"mobile"`
	Otp      string `json:"otp"`
	Password string `json:"password"`
}

// registerVendorRoutes registers signup and credential routes. The
// registration flow is public; profile and password change require a
// session.
func registerVendorRoutes() {
	webserver.PubPOST("/vendor/register", registerVendor)
	webserver.PubPOST("/vendor/verifyOtp", verifyVendorOtp)
	webserver.PubPOST("/vendor/login", loginVendor)
	webserver.PubPOST("/vendor/forgotPassword", forgotPassword)
	webserver.PubPOST("/vendor/forgotPasswordVerifyOtp", forgotPasswordVerifyOtp)
	webserver.ApiGET("/vendor/profile", vendorProfile)
	webserver.ApiPOST("/vendor/changePassword", changePassword)
	webserver.ApiGET("/vendor/otpHistory", otpHistory)
}

func registerVendor(c echo.Context) error {
	var req vendor.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse registration", nil)
	}

	v, err := vendorSvc.Register(c.Request().Context(), req)
	if err != nil {
		return failErr(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"status":  http.StatusCreated,
		"message": "OTP sent to registered mobile number",
		"mobile":  v.Mobile,
	})
}

func verifyVendorOtp(c echo.Context) error {
	var payload otpPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Mobile number and OTP required", nil)
	}
	if err := vendorSvc.VerifyOtp(c.Request().Context(), payload.Mobile, payload.Otp); err != nil {
		return failErr(c, err)
	}
	return ok(c, http.StatusOK, "Vendor verified successfully", nil)
}

func loginVendor(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Mobile number and password required", nil)
	}

	v, err := vendorSvc.Login(c.Request().Context(), payload.Mobile, payload.Password)
	if err != nil {
		// An unverified account is forbidden rather than a plain
		// bad request.
		if domain.KindOf(err) == domain.KindInvalidState {
			return fail(c, http.StatusForbidden, err.Error(), nil)
		}
		return failErr(c, err)
	}

	token, err := webserver.SignToken(appCtx.Config().Web.JwtSecret, v.Mobile, v.ID, sessionTTL)
	if err != nil {
		return failErr(c, domain.ErrInternal(err, "Failed to sign token"))
	}

	return ok(c, http.StatusOK, "Login successful", echo.Map{
		"token":      token,
		"vendorName": v.VendorName,
		"mobile":     v.Mobile,
		"gstNo":      v.GstNo,
	})
}

func vendorProfile(c echo.Context) error {
	claims := webserver.GetClaims(c)

	v, err := vendorSvc.Profile(c.Request().Context(), claims.ID)
	if err != nil {
		return failErr(c, err)
	}
	counts, err := orderSvc.StatusCounts(c.Request().Context(), v.Mobile)
	if err != nil {
		return failErr(c, err)
	}

	status := "Inactive"
	if v.Verified {
		status = "Active"
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":  http.StatusOK,
		"message": "Vendor profile fetched successfully",
		"data": echo.Map{
			"id":         v.ID,
			"vendorName": v.VendorName,
			"shopName":   v.ShopName,
			"mobile":     v.Mobile,
			"gstNo":      v.GstNo,
			"status":     status,
			"shipment": echo.Map{
				"shopNo":   v.ShopNo,
				"address":  v.Address,
				"landmark": v.Landmark,
				"city":     v.City,
				"state":    v.State,
				"pinCode":  v.PinCode,
			},
		},
		"orderData": echo.Map{
			"pendingOrders":       counts[domain.OrderStatusPending],
			"acceptedOrders":      counts[domain.OrderStatusAccepted],
			"cancelledOrders":     counts[domain.OrderStatusCancelled],
			"outOfDeliveryOrders": counts[domain.OrderStatusDelivery],
			"deliveredOrders":     counts[domain.OrderStatusDelivered],
		},
	})
}

func changePassword(c echo.Context) error {
	var payload changePasswordPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Old password and new password are required", nil)
	}
	claims := webserver.GetClaims(c)

	if err := vendorSvc.ChangePassword(c.Request().Context(), claims.Mobile, payload.OldPassword, payload.NewPassword); err != nil {
		return failErr(c, err)
	}
	return ok(c, http.StatusOK, "Password changed successfully", nil)
}

func forgotPassword(c echo.Context) error {
	var payload otpPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Mobile number is required", nil)
	}
	if err := vendorSvc.ForgotPassword(c.Request().Context(), payload.Mobile); err != nil {
		return failErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":  http.StatusOK,
		"message": "OTP sent successfully",
		"mobile":  payload.Mobile,
	})
}

func forgotPasswordVerifyOtp(c echo.Context) error {
	var payload resetPasswordPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Mobile, OTP, and new password are required", nil)
	}
	if err := vendorSvc.ResetPassword(c.Request().Context(), payload.Mobile, payload.Otp, payload.Password); err != nil {
		return failErr(c, err)
	}
	return ok(c, http.StatusOK, "Password reset successfully", nil)
}

func otpHistory(c echo.Context) error {
	claims := webserver.GetClaims(c)
	records, err := otpDisp.History(claims.Mobile)
	if err != nil {
		return failErr(c, domain.ErrInternal(err, "Failed to read otp history"))
	}
	return ok(c, http.StatusOK, "OTP dispatch history fetched", records)
}
