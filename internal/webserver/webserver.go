package webserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/vendormart/vendormart/config"
	"go.uber.org/zap"
)

// SessionClaims is the bearer-token payload. The core trusts it
// unconditionally once the signature checks out.
type SessionClaims struct {
	Mobile string `json:"mobile"`
	ID     int64  `json:"id,string"`
	jwt.RegisteredClaims
}

// SignToken issues an HS256 session token for a vendor.
func SignToken(secret, mobile string, id int64, ttl time.Duration) (string, error) {
	claims := &SessionClaims{
		Mobile: mobile,
		ID:     id,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GetClaims extracts the verified session claims set by the JWT
// middleware. Only valid on routes registered through the Api helpers.
func GetClaims(c echo.Context) *SessionClaims {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil
	}
	return claims
}

// CustomValidator plugs go-playground validation into echo's
// c.Validate.
type CustomValidator struct {
	validate *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validate.Struct(i)
}

type WebServer struct {
	cfg  *config.AppConfig
	root *echo.Echo
	pub  *echo.Group
	api  *echo.Group
}

var server *WebServer

// Init builds the echo server: recovery, request logging, static
// uploads, a public group and a JWT-protected group.
func Init(cfg *config.AppConfig) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &CustomValidator{validate: validator.New()}

	e.Use(middleware.Recover())
	e.Use(requestLogger())

	e.Static("/uploads", cfg.GetUploadDir())

	s := &WebServer{
		cfg:  cfg,
		root: e,
		pub:  e.Group(""),
		api: e.Group("", echojwt.WithConfig(echojwt.Config{
			SigningKey: []byte(cfg.Web.JwtSecret),
			NewClaimsFunc: func(c echo.Context) jwt.Claims {
				return new(SessionClaims)
			},
			ErrorHandler: func(c echo.Context, err error) error {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"status":  http.StatusUnauthorized,
					"message": "Invalid token.",
				})
			},
		})),
	}
	server = s
	return s
}

func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			zap.L().Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("remote_ip", c.RealIP()))
			return nil
		}
	}
}

// Listen starts the server and blocks.
func (s *WebServer) Listen() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Web.Host, s.cfg.Web.Port)
	zap.S().Infof("web server listening on %s", addr)
	return s.root.Start(addr)
}

// Echo exposes the underlying engine (used in tests).
func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

// PubGET registers an unauthenticated GET route
func PubGET(path string, h echo.HandlerFunc) {
	server.pub.GET(path, h)
}

// PubPOST registers an unauthenticated POST route
func PubPOST(path string, h echo.HandlerFunc) {
	server.pub.POST(path, h)
}

// ApiGET registers a bearer-token GET route
func ApiGET(path string, h echo.HandlerFunc) {
	server.api.GET(path, h)
}

// ApiPOST registers a bearer-token POST route
func ApiPOST(path string, h echo.HandlerFunc) {
	server.api.POST(path, h)
}

// ApiPUT registers a bearer-token PUT route
func ApiPUT(path string, h echo.HandlerFunc) {
	server.api.PUT(path, h)
}

// ApiDELETE registers a bearer-token DELETE route
func ApiDELETE(path string, h echo.HandlerFunc) {
	server.api.DELETE(path, h)
}
