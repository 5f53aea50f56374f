// Package server assembles the local HTTP API.
package server

import (
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/najeeb67/my-money-mat/internal/docs" // swagger docs
	"github.com/najeeb67/my-money-mat/internal/handlers"
	"github.com/najeeb67/my-money-mat/internal/middleware"
	"github.com/najeeb67/my-money-mat/internal/services"
	"github.com/najeeb67/my-money-mat/internal/syncer"
)

// Deps are the collaborators the router dispatches to.
type Deps struct {
	Items      services.BudgetItemServicer
	Outbox     services.OutboxServicer
	Controller syncer.Controller
	Subscriber handlers.Subscriber

	// APIKey guards /api/v1 and /ws when non-empty.
	APIKey string
	// AllowedOrigins are browser origin host patterns (path.Match syntax).
	// Empty allows any origin for CORS and same-origin for websockets.
	AllowedOrigins []string
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(deps Deps) *gin.Engine {
	itemHandler := handlers.NewItemHandler(deps.Items)
	mutationHandler := handlers.NewMutationHandler(deps.Outbox, deps.Controller)
	syncHandler := handlers.NewSyncHandler(deps.Controller)
	eventsHandler := handlers.NewEventsHandler(deps.Subscriber, deps.AllowedOrigins)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors(deps.AllowedOrigins))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "online": deps.Controller.Status().Online})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.APIKeyMiddleware(deps.APIKey))

	// Budget items
	items := v1.Group("/items")
	items.POST("", itemHandler.CreateItem)
	items.GET("", itemHandler.ListItems)
	items.GET("/summary", itemHandler.GetSummary)
	items.GET("/unsynced/count", itemHandler.GetUnsyncedCount)
	items.GET("/:id", itemHandler.GetItem)
	items.PUT("/:id", itemHandler.UpdateItem)
	items.DELETE("/:id", itemHandler.DeleteItem)

	// Named mutations and the outbox
	mutations := v1.Group("/mutations")
	mutations.POST("", mutationHandler.ExecuteMutation)
	mutations.GET("", mutationHandler.ListMutations)
	mutations.POST("/replay", mutationHandler.ReplayMutations)
	mutations.DELETE("/:id", mutationHandler.DeleteMutation)

	// Sync control
	sync := v1.Group("/sync")
	sync.POST("", syncHandler.TriggerSync)
	sync.GET("/status", syncHandler.GetStatus)
	sync.GET("/conflicts", syncHandler.ListConflicts)
	sync.POST("/conflicts/resolve", syncHandler.ResolveConflicts)
	sync.POST("/conflicts/auto-resolve", syncHandler.AutoResolveConflicts)

	router.GET("/ws", middleware.APIKeyMiddleware(deps.APIKey), eventsHandler.Stream)

	return router
}

func cors(allowed []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case len(allowed) == 0:
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && originAllowed(origin, allowed):
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Add("Vary", "Origin")
		}
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func originAllowed(origin string, patterns []string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Host)
	for _, p := range patterns {
		if ok, _ := path.Match(strings.ToLower(p), host); ok {
			return true
		}
	}
	return false
}
