package middleware

import "github.com/labstack/echo/v4"

// NoCache stops clients and proxies from caching responses. Balances change with every trade.
func NoCache(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Response().Header()
		h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
		h.Set("Expires", "0")
		h.Set("Pragma", "no-cache")
		return next(c)
	}
}
