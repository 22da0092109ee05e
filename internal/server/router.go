// ABOUTME: HTTP route table and middleware wiring on gin
// ABOUTME: Public reads, key-or-session ingestion, session-only destruction
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tessellate-systems/lattice/internal/auth"
	"github.com/tessellate-systems/lattice/internal/blob"
	"github.com/tessellate-systems/lattice/internal/core"
)

// defaultCollections are always present in the collections listing
var defaultCollections = []string{"default"}

// NewRouter assembles the gin engine with all routes and middleware
func NewRouter(
	log *Logger,
	mode string,
	pipeline *core.Pipeline,
	collections *core.CollectionService,
	authService *auth.Service,
	blobs *blob.Store,
) *gin.Engine {
	if mode == "prod" || mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLog(log))
	r.Use(CORS())

	entries := NewEntryHandler(log, pipeline)
	colls := NewCollectionHandler(log, collections, defaultCollections)
	admin := NewAdminHandler(log, authService)

	r.GET("/healthcheck", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.Static("/images", blobs.Dir(blob.KindImage))
	r.Static("/audio", blobs.Dir(blob.KindAudio))

	api := r.Group("/api")
	{
		api.POST("/admin/signin", admin.SignIn)
		api.GET("/admin/status", admin.Status)

		api.GET("/collections", colls.List)
		api.GET("/collection/:name", colls.View)
		api.GET("/projection/:name", colls.Project)
		api.POST("/projection/:name", colls.Project)

		ingest := api.Group("", RequireIngestAuth(authService))
		{
			ingest.POST("/add", entries.AddText)
			ingest.POST("/add_image", entries.AddImage)
			ingest.POST("/add_audio", entries.AddAudio)
			ingest.POST("/collections", colls.Create)
		}

		protected := api.Group("", RequireAdmin(authService))
		{
			protected.POST("/admin/signout", admin.SignOut)
			protected.DELETE("/entry/:id", entries.DeleteEntry)
			protected.DELETE("/comment/:id", entries.DeleteComment)
		}
	}

	return r
}
