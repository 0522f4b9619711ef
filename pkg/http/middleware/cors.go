package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// CORSConfig lists what cross-origin callers may do. The API surface is
// read-only, so there is no credentials handling.
type CORSConfig struct {
	AllowOrigins []string
	AllowMethods []string
	AllowHeaders []string
}

// CORS lets the dashboard, served from another origin, read the API.
// Preflights are answered inline with 204.
func CORS(cfg CORSConfig) echo.MiddlewareFunc {
	methods := strings.Join(cfg.AllowMethods, ", ")
	headers := strings.Join(cfg.AllowHeaders, ", ")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			res := c.Response().Header()
			res.Add(echo.HeaderVary, echo.HeaderOrigin)

			origin := c.Request().Header.Get(echo.HeaderOrigin)
			if allow := allowOrigin(cfg.AllowOrigins, origin); allow != "" {
				res.Set(echo.HeaderAccessControlAllowOrigin, allow)
				if methods != "" {
					res.Set(echo.HeaderAccessControlAllowMethods, methods)
				}
				if headers != "" {
					res.Set(echo.HeaderAccessControlAllowHeaders, headers)
				}
			}

			if c.Request().Method == http.MethodOptions {
				return c.NoContent(http.StatusNoContent)
			}
			return next(c)
		}
	}
}

// allowOrigin picks the Allow-Origin header value, empty for a caller
// outside the allow list.
func allowOrigin(allowed []string, origin string) string {
	for _, o := range allowed {
		if o == "*" {
			return "*"
		}
		if origin != "" && o == origin {
			return origin
		}
	}
	return ""
}
