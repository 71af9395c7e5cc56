package tags

import "github.com/labstack/echo/v4"

// RegisterRoutes mounts the tag endpoints on an authenticated API group.
func RegisterRoutes(g *echo.Group, h *Handler) {
	g.GET("/tags", h.List)
	g.POST("/tags", h.Create)
	g.GET("/tags/:id", h.Get)
	g.PATCH("/tags/:id", h.Update)
	g.PUT("/tags/:id", h.Update)
	g.DELETE("/tags/:id", h.Delete)
}
