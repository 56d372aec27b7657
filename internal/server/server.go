package server

import (
	"log"
	"os"
	"strings"
	"time"

	"jigswap.app/jigswap/internal/i18n"
	"jigswap.app/jigswap/internal/middleware"
	"jigswap.app/jigswap/pkg/storage"

	categoryHttp "jigswap.app/jigswap/internal/modules/category/delivery/http"
	categoryRepo "jigswap.app/jigswap/internal/modules/category/repository"
	categoryService "jigswap.app/jigswap/internal/modules/category/service"

	favoriteHttp "jigswap.app/jigswap/internal/modules/favorite/delivery/http"
	favoriteRepo "jigswap.app/jigswap/internal/modules/favorite/repository"
	favoriteService "jigswap.app/jigswap/internal/modules/favorite/service"

	messageHttp "jigswap.app/jigswap/internal/modules/message/delivery/http"
	messageRepo "jigswap.app/jigswap/internal/modules/message/repository"
	messageService "jigswap.app/jigswap/internal/modules/message/service"

	notiHttp "jigswap.app/jigswap/internal/modules/notification/delivery/http"
	notifRepo "jigswap.app/jigswap/internal/modules/notification/repository"
	notifService "jigswap.app/jigswap/internal/modules/notification/service"

	profileHttp "jigswap.app/jigswap/internal/modules/profile/delivery/http"
	profileService "jigswap.app/jigswap/internal/modules/profile/service"

	puzzleHttp "jigswap.app/jigswap/internal/modules/puzzle/delivery/http"
	puzzleRepo "jigswap.app/jigswap/internal/modules/puzzle/repository"
	puzzleService "jigswap.app/jigswap/internal/modules/puzzle/service"

	reviewHttp "jigswap.app/jigswap/internal/modules/review/delivery/http"
	reviewRepo "jigswap.app/jigswap/internal/modules/review/repository"
	reviewService "jigswap.app/jigswap/internal/modules/review/service"

	searchService "jigswap.app/jigswap/internal/modules/search/service"

	settingsHttp "jigswap.app/jigswap/internal/modules/settings/delivery/http"

	statHttp "jigswap.app/jigswap/internal/modules/stat/delivery/http"
	statRepo "jigswap.app/jigswap/internal/modules/stat/repository"
	statService "jigswap.app/jigswap/internal/modules/stat/service"

	tradeHttp "jigswap.app/jigswap/internal/modules/trade/delivery/http"
	tradeRepo "jigswap.app/jigswap/internal/modules/trade/repository"
	tradeService "jigswap.app/jigswap/internal/modules/trade/service"

	userHttp "jigswap.app/jigswap/internal/modules/user/delivery/http"
	userRepo "jigswap.app/jigswap/internal/modules/user/repository"
	userService "jigswap.app/jigswap/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(db *gorm.DB, redisClient *redis.Client) *Server {
	userRepository := userRepo.NewUserRepository(db)
	imageStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Fatalf("failed to initialize cloudinary storage: %v", err)
	}

	meiliClient := searchService.NewClient(os.Getenv("MEILISEARCH_HOST"), os.Getenv("MEILI_MASTER_KEY"))
	searchSvc := searchService.NewSearchService(meiliClient)

	authSvc := userService.NewAuthService(userRepository)
	authHandler := userHttp.NewAuthHandler(authSvc)

	categoryRepository := categoryRepo.NewCategoryRepository(db)
	categorySvc := categoryService.NewCategoryService(categoryRepository)
	categoryHandler := categoryHttp.NewCategoryHandler(categorySvc)

	notificationRepository := notifRepo.NewNotificationRepository(db)
	notificationSvc := notifService.NewNotificationService(notificationRepository, redisClient)
	notificationHandler := notiHttp.NewNotificationHandler(notificationSvc, redisClient)

	puzzleRepository := puzzleRepo.NewPuzzleRepository(db)
	puzzleSvc := puzzleService.NewPuzzleService(puzzleRepository, categoryRepository, userRepository, imageStorage, searchSvc)
	puzzleHandler := puzzleHttp.NewPuzzleHandler(puzzleSvc)

	tradeRepository := tradeRepo.NewTradeRepository(db)
	messageRepository := messageRepo.NewMessageRepository(db)

	tradeSvc := tradeService.NewTradeService(tradeRepository, puzzleRepository, userRepository, messageRepository, notificationSvc, redisClient)
	tradeHandler := tradeHttp.NewTradeHandler(tradeSvc)

	messageSvc := messageService.NewMessageService(messageRepository, tradeRepository, userRepository, notificationSvc)
	messageHandler := messageHttp.NewMessageHandler(messageSvc)

	reviewRepository := reviewRepo.NewReviewRepository(db)
	reviewSvc := reviewService.NewReviewService(reviewRepository, tradeRepository, userRepository, notificationSvc)
	reviewHandler := reviewHttp.NewReviewHandler(reviewSvc)

	favoriteRepository := favoriteRepo.NewFavoriteRepository(db)
	favoriteSvc := favoriteService.NewFavoriteService(favoriteRepository, puzzleRepository, notificationSvc)
	favoriteHandler := favoriteHttp.NewFavoriteHandler(favoriteSvc)

	statRepository := statRepo.NewStatRepository(db)
	statSvc := statService.NewStatService(statRepository, redisClient)
	statHandler := statHttp.NewStatHandler(statSvc)

	profileSvc := profileService.NewProfileService(userRepository, imageStorage, statSvc)
	profileHandler := profileHttp.NewProfileHandler(profileSvc)

	settingsHandler := settingsHttp.NewSettingsHandler()

	router := gin.New()

	setupCORS(router)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(i18n.Middleware())

	authMiddleware := middleware.NewAuthMiddleware(userRepository)

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/google/login", authHandler.GoogleLogin)
		auth.GET("/google/callback", authHandler.GoogleCallback)
	}

	api.GET("/puzzles", puzzleHandler.List)
	api.GET("/puzzles/:puzzle_id", puzzleHandler.Get)
	api.GET("/puzzles/:puzzle_id/favorites/count", favoriteHandler.Count)
	api.GET("/categories", categoryHandler.List)
	api.GET("/users/:user_id/reviews", reviewHandler.ListByUser)
	api.GET("/users/:user_id/stats", statHandler.GetUserStats)
	api.GET("/stats", statHandler.GetGlobalStats)

	api.GET("/settings/theme", settingsHandler.GetTheme)
	api.PUT("/settings/theme", settingsHandler.SetTheme)
	api.GET("/settings/locale", settingsHandler.GetLocale)
	api.PUT("/settings/locale", settingsHandler.SetLocale)

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Admin routes
		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.POST("/categories", categoryHandler.Create)
			adminGroup.PUT("/categories/reorder", categoryHandler.Reorder)
			adminGroup.PUT("/categories/:id", categoryHandler.Update)
			adminGroup.DELETE("/categories/:id", categoryHandler.Delete)
		}

		// Puzzle routes
		protected.POST("/puzzles", puzzleHandler.Create)
		protected.GET("/puzzles/me", puzzleHandler.ListMine)
		protected.PUT("/puzzles/:puzzle_id", puzzleHandler.Update)
		protected.DELETE("/puzzles/:puzzle_id", puzzleHandler.Delete)
		protected.POST("/puzzles/:puzzle_id/images", puzzleHandler.UploadImage)
		protected.POST("/puzzles/:puzzle_id/favorite", favoriteHandler.Toggle)

		// Trade routes
		protected.POST("/trades", tradeHandler.Create)
		protected.GET("/trades", tradeHandler.List)
		protected.GET("/trades/:trade_id", tradeHandler.Get)
		protected.PUT("/trades/:trade_id/respond", tradeHandler.Respond)
		protected.PUT("/trades/:trade_id/complete", tradeHandler.Complete)
		protected.PUT("/trades/:trade_id/cancel", tradeHandler.Cancel)

		// Conversation routes
		protected.POST("/trades/:trade_id/messages", messageHandler.Send)
		protected.GET("/trades/:trade_id/messages", messageHandler.ListByTrade)
		protected.PUT("/trades/:trade_id/messages/read", messageHandler.MarkRead)
		protected.GET("/messages/unread-count", messageHandler.UnreadCount)

		// Review routes
		protected.POST("/reviews", reviewHandler.Create)
		protected.GET("/trades/:trade_id/reviews", reviewHandler.ListByTrade)

		// Favorite routes
		protected.GET("/favorites", favoriteHandler.ListMine)

		// Profile routes
		protected.GET("/profile/me", profileHandler.GetCurrent)
		protected.GET("/profile/:username", profileHandler.GetByUsername)
		protected.PUT("/profile", profileHandler.Update)

		// Notification routes
		protected.GET("/notifications", notificationHandler.List)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine) {
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept-Language"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
