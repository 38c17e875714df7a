// Package api wires the gin engine.
package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/socialverse/internal/api/handler"
	"github.com/d60-Lab/socialverse/internal/middleware"
	"github.com/d60-Lab/socialverse/pkg/metrics"

	_ "github.com/d60-Lab/socialverse/docs"
)

type RouterOptions struct {
	CORSOrigin  string
	Swagger     bool
	ServiceName string // otel span name prefix; "" disables tracing middleware
	AuthLimiter *middleware.IPRateLimiter
}

// NewRouter 注册全部路由
func NewRouter(h *handler.Handler, verifier middleware.TokenVerifier, opts RouterOptions) (*gin.Engine, error) {
	if err := handler.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(middleware.Recovery(), middleware.Sentry(), middleware.RequestLogger(), middleware.Metrics(), middleware.ReportServerErrors())
	if opts.ServiceName != "" {
		r.Use(otelgin.Middleware(opts.ServiceName))
	}

	corsCfg := cors.DefaultConfig()
	if opts.CORSOrigin == "" || opts.CORSOrigin == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{opts.CORSOrigin}
		corsCfg.AllowCredentials = true
	}
	corsCfg.AddAllowHeaders("Authorization")
	r.Use(cors.New(corsCfg))

	// websocket 与指标不压缩
	r.GET("/ws", h.Relay)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	if opts.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	gz := r.Group("/", gzip.Gzip(gzip.DefaultCompression))
	gz.GET("/", h.Health)

	users := gz.Group("/api/users", opts.AuthLimiter.Middleware())
	users.POST("/register", h.Register)
	users.POST("/login", h.Login)

	auth := middleware.Auth(verifier)
	posts := gz.Group("/api/posts")
	posts.GET("", h.ListPosts)
	posts.GET("/:postId", h.GetPost)
	posts.POST("", auth, h.CreatePost)
	posts.POST("/:postId/comments", auth, h.AddComment)

	return r, nil
}
