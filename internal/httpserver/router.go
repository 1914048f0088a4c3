package httpserver

import (
	"log"
	"time"

	"freshprep/internal/config"
	blogrepo "freshprep/internal/repository/blog"
	mealrepo "freshprep/internal/repository/meal"
	orderrepo "freshprep/internal/repository/order"
	sessionrepo "freshprep/internal/repository/session"
	zonerepo "freshprep/internal/repository/zone"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps bundles the stores and services the handlers need.
type Deps struct {
	Meals    mealrepo.Repository
	Cart     cartService
	Sessions sessionrepo.Repository
	Zones    zonerepo.Repository
	Blog     blogrepo.Repository
	Orders   orderrepo.Repository
}

// buildRouter wires middleware and routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, cfg config.Config, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")
	api.Use(identityMiddleware(deps.Sessions))

	api.GET("/meals", listMealsHandler(deps.Meals))
	api.GET("/meals/:slug", getMealHandler(deps.Meals))

	api.GET("/delivery-zones", listZonesHandler(deps.Zones))
	api.GET("/delivery-zones/check", checkPostcodeHandler(deps.Zones))

	api.GET("/blog", listBlogHandler(deps.Blog))
	api.GET("/blog/:slug", getBlogPostHandler(deps.Blog))

	api.GET("/orders", listOrdersHandler(deps.Orders))
	api.GET("/orders/:id", getOrderHandler(deps.Orders))

	cartWrites := rateLimitWrites(time.Second/10, 10)
	secure := cfg.IsProduction()
	api.GET("/cart", getCartHandler(deps.Cart))
	api.POST("/cart", cartWrites, syncCartHandler(deps.Cart, secure))
	api.POST("/cart/items", cartWrites, addCartItemHandler(deps.Cart, secure))
	api.PATCH("/cart/items", cartWrites, updateCartItemHandler(deps.Cart))
	api.DELETE("/cart/items/:mealID", cartWrites, removeCartItemHandler(deps.Cart))

	return router
}
