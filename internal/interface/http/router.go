package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/docsum/internal/domain/auth"
	"github.com/yanqian/docsum/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
// A nil authSvc leaves the document endpoints open.
func NewRouter(cfg *config.Config, handler *Handler, authSvc auth.Service, logger *slog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.SetHTMLTemplate(loadTemplates())
	router.Use(
		gin.Recovery(),
		requestLogger(logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, logger),
		bodyLimitMiddleware(cfg.HTTP.MaxUploadBytes),
	)

	router.GET("/", handler.Index)
	router.POST("/upload", handler.UploadPage)
	router.GET("/healthz", handler.Health)

	api := router.Group("/api/v1")
	{
		api.POST("/summaries", handler.Summarize)

		protected := api.Group("")
		if authSvc != nil {
			protected.Use(authMiddleware(authSvc))
		}
		protected.POST("/documents", handler.UploadDocument)
		protected.GET("/documents", handler.ListDocuments)
		protected.GET("/documents/:id", handler.GetDocument)
		protected.GET("/documents/:id/summaries", handler.ListDocumentSummaries)
		protected.POST("/documents/:id/summaries", handler.Resummarize)
		protected.GET("/records/:id", handler.GetRecord)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
