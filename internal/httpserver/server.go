package httpserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	cfgpkg "github.com/taoyao-code/lora-node/internal/config"
	"github.com/taoyao-code/lora-node/internal/state"
)

// Server HTTP 服务封装：健康检查、指标与最近遥测查询
type Server struct {
	srv *http.Server
}

// New 创建并配置 Gin + HTTP Server。
// readyFn 报告射频配置对话是否已完成。
func New(cfg cfgpkg.HTTPConfig, node cfgpkg.NodeConfig, rec *state.Reception,
	metricsPath string, metricsHandler http.Handler, readyFn func() bool,
) *Server {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/readyz", func(c *gin.Context) {
		if readyFn == nil || readyFn() {
			c.String(http.StatusOK, "ready")
			return
		}
		c.String(http.StatusServiceUnavailable, "not-ready")
	})
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	if metricsHandler != nil {
		r.GET(metricsPath, gin.WrapH(metricsHandler))
	}

	r.GET("/api/v1/status", func(c *gin.Context) {
		s := rec.Snapshot()
		resp := gin.H{
			"node": gin.H{
				"id":           node.ID,
				"address":      node.Address,
				"networkId":    node.NetworkID,
				"frequencyMhz": node.FrequencyMHz,
			},
			"received": s.Count,
		}
		if s.Valid {
			resp["last"] = gin.H{
				"seq":           s.Last.Seq,
				"temperature":   s.Last.Temperature,
				"humidity":      s.Last.Humidity,
				"gasResistance": s.Last.GasResistance,
				"rssi":          s.Last.RSSI,
				"snr":           s.Last.SNR,
			}
		}
		c.JSON(http.StatusOK, resp)
	})

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return &Server{srv: srv}
}

// Start 启动 HTTP 服务（阻塞）
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Shutdown 优雅关闭
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
