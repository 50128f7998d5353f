package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/guardforce-admin/internal/workspace"
)

// RegisterEntityRoutes mounts the entity endpoints under rg/<resource>.
// deleteGuard runs before DELETE handlers.
func RegisterEntityRoutes(rg *gin.RouterGroup, h *EntityHandler, entities []workspace.Entity, deleteGuard ...gin.HandlerFunc) {
	for _, e := range entities {
		group := rg.Group("/"+e.Name(), h.Bind(e))
		group.GET("", h.List)
		group.POST("", h.Create)
		group.GET("/state", h.State)
		group.DELETE("/state/error", h.ClearError)
		group.GET("/lookup", h.Lookup)
		group.GET("/export", h.Export)
		group.GET("/:id", h.Get)
		group.PUT("/:id", h.Update)
		group.DELETE("/:id", append(append([]gin.HandlerFunc{}, deleteGuard...), h.Delete)...)
		group.POST("/:id/:action", h.Transition)
	}
}
