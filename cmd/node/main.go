package main

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/lora-node/internal/config"
	"github.com/taoyao-code/lora-node/internal/display"
	"github.com/taoyao-code/lora-node/internal/httpserver"
	"github.com/taoyao-code/lora-node/internal/logging"
	"github.com/taoyao-code/lora-node/internal/metrics"
	"github.com/taoyao-code/lora-node/internal/node"
	"github.com/taoyao-code/lora-node/internal/radio"
	"github.com/taoyao-code/lora-node/internal/serialport"
	"github.com/taoyao-code/lora-node/internal/state"
)

func main() {
	// 1) 加载配置
	cfg, err := cfgpkg.Load(os.Getenv("NODE_CONFIG"))
	if err != nil {
		panic(err)
	}

	// 2) 初始化日志；显示面板启用时终端让给面板，日志只写文件
	logger, err := logging.InitLogger(cfg.Logging, !cfg.Display.Enable)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)
	log := zap.L()

	// 3) 指标注册
	reg := metrics.NewRegistry()
	appm := metrics.NewAppMetrics(reg)

	// 4) 打开串口并完成射频模块配置对话
	port, err := serialport.Open(cfg.Serial)
	if err != nil {
		log.Fatal("open serial port", zap.Error(err))
	}
	defer func() { _ = port.Close() }()

	var ready atomic.Bool
	if err := radio.Configure(port, cfg.Node, cfg.Radio, log); err != nil {
		log.Fatal("radio configure", zap.Error(err))
	}
	ready.Store(true)

	// 5) 共享接收槽 + HTTP 服务
	rec := &state.Reception{}
	httpSrv := httpserver.New(cfg.HTTP, cfg.Node, rec, cfg.Metrics.Path,
		metrics.Handler(reg), ready.Load)
	go func() {
		if err := httpSrv.Start(); err != nil {
			log.Error("http server error", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 6) 显示任务（周期消费方）
	if cfg.Display.Enable {
		presenter := display.NewPresenter(rec, cfg.Node, cfg.Display.RefreshInterval)
		go func() {
			if err := presenter.Run(ctx); err != nil && ctx.Err() == nil {
				log.Error("presenter error", zap.Error(err))
			}
		}()
	}

	// 7) 接收任务（阻塞直至信号或通道错误）
	receiver := node.New(port, cfg.Node, rec, appm, log)
	if err := receiver.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("receiver error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(shutdownCtx)
}
