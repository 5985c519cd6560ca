package router

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/wellpulse/internal/config"
	adminhandlers "github.com/wellpulse/internal/http/handlers/admin"
	publichandlers "github.com/wellpulse/internal/http/handlers/public"
	"github.com/wellpulse/internal/http/response"
	"github.com/wellpulse/internal/logger"
	"github.com/wellpulse/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	api := r.Group("/api")
	{
		// 管理员身份与找回密码，全部匿名可达；注册不设鉴权与首管理员
		// 限制，沿用原部署形态，公网环境应由反向代理收口。
		adminGroup := api.Group("/admin")
		{
			adminGroup.POST("/register", adminHandler.Register)
			adminGroup.POST("/login", adminHandler.Login)
			adminGroup.POST("/forgot-password", adminHandler.ForgotPassword)
			adminGroup.POST("/verify-otp", adminHandler.VerifyOTP)
			adminGroup.POST("/reset-password", adminHandler.ResetPassword)
		}

		// 问卷提交匿名，读取与导出需要会话 Token。
		api.POST("/assessments", publicHandler.SubmitAssessment)

		protected := api.Group("", JWTAuthMiddleware(cfg.JWT.SecretKey))
		{
			protected.GET("/assessments", adminHandler.ListAssessments)
			protected.GET("/assessments/stats", adminHandler.AssessmentStats)
			protected.GET("/assessments/export", adminHandler.ExportAssessments)
			protected.POST("/admin/smtp-test", adminHandler.SMTPTest)
		}
	}

	registerFrontend(r, cfg.Survey.StaticDir)

	return r
}

// registerFrontend 挂载前端静态资源
// 未命中的非 API GET 请求回退到 index.html，由前端路由接管。
func registerFrontend(r *gin.Engine, staticDir string) {
	staticDir = strings.TrimSpace(staticDir)

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") || c.Request.URL.Path == "/api" {
			response.NotFound(c, "route not found")
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			response.NotFound(c, "route not found")
			return
		}
		if staticDir == "" {
			response.NotFound(c, "route not found")
			return
		}

		requested := filepath.Join(staticDir, filepath.Clean("/"+c.Request.URL.Path))
		if info, err := os.Stat(requested); err == nil && !info.IsDir() {
			c.File(requested)
			return
		}
		index := filepath.Join(staticDir, "index.html")
		if _, err := os.Stat(index); err == nil {
			c.File(index)
			return
		}
		response.NotFound(c, "route not found")
	})
}
