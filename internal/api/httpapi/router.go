package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter регистрирует маршруты API; без auth маршруты входа не регистрируются.
func NewRouter(h *Handler, auth *AuthHandler, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), cors(allowedOrigins))

	router.GET("/health", h.Health)
	router.POST("/getAge", h.Predict)

	if auth != nil {
		router.POST("/signup", auth.Signup)
		router.POST("/login", auth.Login)
	}

	api := router.Group("/api")
	api.POST("/predict", h.Predict)
	api.GET("/predictions", h.History)

	return router
}

// cors пропускает запросы только с разрешённых Origin
func cors(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	_, wildcard := allowed["*"]

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		header := c.Writer.Header()
		if _, ok := allowed[origin]; ok && origin != "*" {
			// конкретный Origin: можно с cookies
			header.Set("Access-Control-Allow-Origin", origin)
			header.Set("Access-Control-Allow-Credentials", "true")
			header.Add("Vary", "Origin")
		} else if wildcard && origin != "" {
			// "*" несовместим с credentials
			header.Set("Access-Control-Allow-Origin", "*")
		}
		if header.Get("Access-Control-Allow-Origin") != "" {
			header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
			header.Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
