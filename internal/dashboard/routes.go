package dashboard

import (
	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/rolodex/internal/entitysync"
)

// RegisterRoutes mounts the dashboard API on g (normally /dashboard/api).
func RegisterRoutes(g *echo.Group, h *Handler) {
	g.GET("/summary", h.Summary)
	g.POST("/reload", h.Reload)

	mountKind(g.Group("/contacts"), h.contacts)
	mountKind(g.Group("/campaigns"), h.campaigns)
	mountKind(g.Group("/tags"), h.tags)

	g.POST("/contacts/selection/tags", h.AssignTag)
	g.DELETE("/contacts/selection/tags/:tagId", h.RemoveTag)
}

func mountKind[T entitysync.Entity, D, P, V any](g *echo.Group, h *kindHandler[T, D, P, V]) {
	g.GET("", h.list)
	g.POST("", h.create)
	g.POST("/load", h.load)
	g.POST("/search", h.search)

	g.GET("/selection", h.selection)
	g.PUT("/selection", h.selectIDs)
	g.DELETE("/selection", h.clearSelection)
	g.POST("/selection/:id/toggle", h.toggle)

	g.GET("/:id", h.get)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.delete)
}
