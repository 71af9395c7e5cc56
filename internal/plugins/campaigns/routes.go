package campaigns

import "github.com/labstack/echo/v4"

// RegisterRoutes mounts the campaign endpoints on an authenticated API group.
func RegisterRoutes(g *echo.Group, h *Handler) {
	g.GET("/campaigns", h.List)
	g.POST("/campaigns", h.Create)
	g.GET("/campaigns/:id", h.Get)
	g.PATCH("/campaigns/:id", h.Update)
	g.PUT("/campaigns/:id", h.Update)
	g.DELETE("/campaigns/:id", h.Delete)
}
