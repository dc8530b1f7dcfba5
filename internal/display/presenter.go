package display

import (
	"context"
	"time"

	"github.com/pterm/pterm"

	cfgpkg "github.com/taoyao-code/lora-node/internal/config"
	"github.com/taoyao-code/lora-node/internal/state"
)

// Presenter 周期消费方：按固定周期快照共享槽并重绘终端区域。
// 不含任何协议逻辑；只读共享槽，从不碰串口。
type Presenter struct {
	rec      *state.Reception
	node     cfgpkg.NodeConfig
	interval time.Duration
}

// NewPresenter 创建显示任务
func NewPresenter(rec *state.Reception, node cfgpkg.NodeConfig, interval time.Duration) *Presenter {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &Presenter{rec: rec, node: node, interval: interval}
}

// Run 显示循环。先取快照（锁内仅拷贝），重绘这类慢操作全部在锁外进行，
// 保证接收路径永远不被显示拖住。ctx 取消后停止并清理区域。
func (p *Presenter) Run(ctx context.Context) error {
	area, err := pterm.DefaultArea.Start(Render(p.rec.Snapshot(), p.node))
	if err != nil {
		return err
	}
	defer func() { _ = area.Stop() }()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			area.Update(Render(p.rec.Snapshot(), p.node))
		}
	}
}
