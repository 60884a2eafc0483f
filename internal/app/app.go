package app

import (
	"database/sql"
	"fmt"
	"log"

	"securelogin/internal/config"
	"securelogin/internal/handlers"
	"securelogin/internal/middleware"
	"securelogin/internal/ratelimit"
	"securelogin/internal/repositories"
	"securelogin/internal/routes"
	"securelogin/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "securelogin/docs"
)

func Run() {
	cfg := config.LoadConfig()

	if cfg.JWT.Secret == "" {
		log.Fatal("jwt.secret is not configured")
	}
	middleware.JWTKey = []byte(cfg.JWT.Secret)

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Ошибка подключения к БД: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка закрытия БД: %v", err)
		}
	}()

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)

	// === Services ===
	authService := services.NewAuthService()

	var emailService services.EmailService
	if cfg.Email.SMTPHost != "" {
		emailService = services.NewEmailService(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUser,
			cfg.Email.SMTPPassword,
			cfg.Email.FromEmail,
		)
	}

	userService := services.NewUserService(userRepo, emailService, authService)
	twoFAService := services.NewTwoFAService(userRepo, emailService, cfg.TOTP.Issuer)

	// Счётчики rate limit: один инстанс — память, несколько — общий Redis
	var store ratelimit.CounterStore = ratelimit.NewMemoryStore()
	if cfg.Redis.Addr != "" {
		store = ratelimit.NewRedisStore(redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}))
		log.Printf("rate limit counters in redis at %s", cfg.Redis.Addr)
	}

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(userService, authService, cfg.Auth.PasswordMinLen)
	twoFAHandler := handlers.NewTwoFAHandler(twoFAService)
	protectedHandler := handlers.NewProtectedHandler()

	// === Gin ===
	router := gin.Default()
	router.Use(corsMiddleware(cfg.CORS.Origin))

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		store,
		authHandler,
		twoFAHandler,
		protectedHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущен на %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Ошибка запуска сервера: ", err)
	}
}

func corsMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
