package contacts

import "github.com/labstack/echo/v4"

// RegisterRoutes mounts the contact endpoints on an authenticated API group.
func RegisterRoutes(g *echo.Group, h *Handler) {
	g.GET("/contacts", h.List)
	g.POST("/contacts", h.Create)
	g.GET("/contacts/:id", h.Get)
	g.PATCH("/contacts/:id", h.Update)
	g.PUT("/contacts/:id", h.Update)
	g.DELETE("/contacts/:id", h.Delete)
}
