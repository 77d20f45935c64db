package router

import (
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"

	"ocucheck/internal/config"
	"ocucheck/internal/handlers"
	"ocucheck/internal/models"
	"ocucheck/internal/staircase"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func errorHandler(c *gin.Context, info ratelimit.Info) {
	c.String(http.StatusTooManyRequests, "Too many requests. Try again later.")
}

func Setup(log *zap.Logger, screening *models.Screening, manager *staircase.Manager) *gin.Engine {
	// Set up a new Gin router, add recovery middleware and request logging.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	store := cookie.NewStore([]byte(config.Conf.Server.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true in production
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 7,
	})
	router.Use(sessions.Sessions("ocucheck_session", store))

	// --- Now that sessions are initialized, other middleware can use them ---
	router.Use(CSRFProtection())
	router.Use(UserLoaderMiddleware(log))

	// The results page pulls the echarts runtime from its CDN.
	router.Use(func(c *gin.Context) {
		c.Header("Content-Security-Policy",
			"script-src 'self' https://go-echarts.github.io https://cdn.jsdelivr.net; style-src 'self' 'unsafe-inline'")
		c.Next()
	})

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		err := secureMiddleware.Process(c.Writer, c.Request)
		if err != nil {
			c.Abort()
			return
		}
	})

	router.Static("/assets", "./assets")

	// Handlers and routes
	authHandler := handlers.NewAuthHandler(log)
	screeningHandler := handlers.NewScreeningHandler(log, screening, manager)
	resultsHandler := handlers.NewResultsHandler(log, screening)
	userHandler := handlers.NewUserHandler(log)

	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 5,
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: errorHandler,
		KeyFunc:      keyFunc,
	})

	// The browser client bootstraps from here: who am I, and which CSRF
	// token do unsafe requests need.
	router.GET("/session", func(c *gin.Context) {
		csrfToken, _ := c.Get("csrf_token")
		payload := gin.H{"csrfToken": csrfToken, "loggedIn": false}
		if value, exists := c.Get("user"); exists {
			user := value.(*models.User)
			payload["loggedIn"] = true
			payload["email"] = user.Email
			payload["firstName"] = user.FirstName
		}
		c.JSON(http.StatusOK, payload)
	})

	router.POST("/login", limiter, authHandler.Login)
	router.POST("/logout", authHandler.Logout)
	router.POST("/register", limiter, authHandler.Register)

	authorized := router.Group("/")
	authorized.Use(AuthRequired())
	{
		screeningRoutes := authorized.Group("/screening")
		{
			screeningRoutes.POST("/:test/:eye/start", screeningHandler.Start)
			screeningRoutes.POST("/respond", screeningHandler.Respond)
			screeningRoutes.GET("/report", screeningHandler.Report)
		}

		authorized.GET("/results", resultsHandler.ShowResults)

		profileRoutes := authorized.Group("/profile")
		{
			profileRoutes.POST("/update-info", userHandler.UpdateInfo)
			profileRoutes.POST("/update-password", userHandler.UpdatePassword)
			profileRoutes.POST("/notifications", userHandler.UpdateNotifications)
			profileRoutes.POST("/delete", userHandler.DeleteAccount)
		}
	}

	return router
}
