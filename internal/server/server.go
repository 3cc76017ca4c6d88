// Package server: 헬스 체크와 수동 실행 트리거를 제공하는 관리자용 HTTP 서버.
// CRUD API 서버와는 별개의 운영용 표면이다.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/kapu/campus-meal-alarm-go/internal/config"
	"github.com/kapu/campus-meal-alarm-go/internal/constants"
	"github.com/kapu/campus-meal-alarm-go/internal/domain"
	"github.com/kapu/campus-meal-alarm-go/internal/health"
	"github.com/kapu/campus-meal-alarm-go/internal/service/mealalarm"
)

// Server: gin 기반 관리자 서버
type Server struct {
	httpSrv *http.Server
	logger  *slog.Logger
}

// New: 라우터를 구성하고 서버를 생성한다.
func New(cfg config.ServerConfig, runner mealalarm.Runner, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), gzip.Gzip(gzip.DefaultCompression), requestLogger(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, health.Get())
	})

	admin := router.Group("/admin", adminAuth(cfg, logger))
	admin.POST("/alarm/run/:category", func(c *gin.Context) {
		category := domain.ParseAlarmCategory(c.Param("category"))
		if category == domain.AlarmNone {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown alarm category"})
			return
		}

		// 수동 실행은 스케줄 실행과 같은 경로를 탄다. 겹침 방지도 동일하게 적용된다.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), constants.RequestTimeout.JobRun)
			defer cancel()
			if err := runner.RunCategory(ctx, category); err != nil {
				logger.Error("Manual alarm run failed",
					slog.String("category", string(category)),
					slog.Any("error", err),
				)
			}
		}()

		c.JSON(http.StatusAccepted, gin.H{"status": "triggered", "category": string(category)})
	})

	return &Server{
		httpSrv: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  constants.ServerTimeout.Read,
			WriteTimeout: constants.ServerTimeout.Write,
		},
		logger: logger,
	}
}

// Start: 서버를 백그라운드에서 기동한다.
func (s *Server) Start() {
	go func() {
		s.logger.Info("Admin server listening", slog.String("addr", s.httpSrv.Addr))
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Admin server error", slog.Any("error", err))
		}
	}()
}

// Shutdown: 서버를 우아하게 종료한다.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logger.Debug("http_request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
		)
	}
}
