package routes

import (
	"log/slog"

	"board-api/cache"
	"board-api/config"
	"board-api/controllers"
	"board-api/middleware"
	"board-api/repositories"
	"board-api/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// NewRouter builds the gin engine with the middleware shared by every route.
func NewRouter(cfg *config.Config, logger *slog.Logger) *gin.Engine {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.FrontendURL)))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.ErrorHandler())
	return r
}

func SetupRoutes(
	r *gin.Engine,
	db *gorm.DB,
	store cache.Store,
	listing *services.PostListingCache,
	cfg *config.Config,
	emailService *services.EmailService,
	logger *slog.Logger,
) {
	userRepo := repositories.NewUserRepository(db)
	postRepo := repositories.NewPostRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	likeRepo := repositories.NewLikeRepository(db)

	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiration, emailService, logger)
	postService := services.NewPostService(postRepo, likeRepo, listing)
	userService := services.NewUserService(userRepo, postService)
	commentService := services.NewCommentService(commentRepo, postRepo, listing)
	likeService := services.NewLikeService(likeRepo, postRepo, listing)

	authController := controllers.NewAuthController(authService)
	userController := controllers.NewUserController(userService)
	postController := controllers.NewPostController(postService)
	commentController := controllers.NewCommentController(commentService)
	likeController := controllers.NewLikeController(likeService)
	cacheController := controllers.NewCacheController(listing)
	healthController := controllers.NewHealthController(db, store)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		cache.NewCollector(listing.Metrics()),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r.GET("/ping", healthController.Ping)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	requireAuth := middleware.AuthMiddleware(authService)
	optionalAuth := middleware.OptionalAuth(authService)

	api := r.Group("/api")
	api.Use(middleware.ValidateJSON())
	api.GET("/ping", healthController.Ping)

	// Auth routes
	auth := api.Group("/auth")
	auth.Use(middleware.RateLimit(cfg.RateLimitPerMinute, cfg.RateLimitBurst))
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.GET("/me", requireAuth, authController.Me)
	}

	// User routes (public)
	users := api.Group("/users")
	{
		users.GET("/:userId", userController.GetUser)
		users.GET("/:userId/posts", optionalAuth, userController.GetUserPosts)
	}

	posts := api.Group("/posts")
	{
		posts.GET("/:postId/comments", commentController.GetComments)
	}

	protected := posts.Group("")
	protected.Use(requireAuth)
	{
		protected.GET("", postController.GetPosts)
		protected.POST("", postController.CreatePost)
		protected.GET("/:postId", postController.GetPost)
		protected.PATCH("/:postId", postController.UpdatePost)
		protected.DELETE("/:postId", postController.DeletePost)

		protected.POST("/:postId/comments", commentController.CreateComment)
		protected.PATCH("/:postId/comments/:commentId", commentController.UpdateComment)
		protected.DELETE("/:postId/comments/:commentId", commentController.DeleteComment)

		protected.POST("/:postId/like", likeController.LikePost)
		protected.DELETE("/:postId/like", likeController.UnlikePost)
		protected.POST("/:postId/like/toggle", likeController.ToggleLike)
	}

	// Cache statistics
	cacheStats := api.Group("/cache")
	{
		cacheStats.GET("/stats", requireAuth, cacheController.GetStats)
		cacheStats.DELETE("/stats", middleware.RequireAdminToken(cfg.AdminToken), cacheController.ResetStats)
	}
}
