package display

import (
	"fmt"
	"strings"

	cfgpkg "github.com/taoyao-code/lora-node/internal/config"
	"github.com/taoyao-code/lora-node/internal/state"
)

// Render 生成显示文本，布局与固件 128x64 OLED 的五行屏一致：
// 温湿度、气阻（kΩ）、节点与序列号、网络与频率、信号质量与总计数。
// 首条消息到达前显示启动画面。纯函数，便于测试。
func Render(s state.Snapshot, node cfgpkg.NodeConfig) string {
	var b strings.Builder
	if !s.Valid {
		fmt.Fprintf(&b, "%s RECEIVER\n", node.ID)
		fmt.Fprintf(&b, "Net:%d %dMHz\n", node.NetworkID, node.FrequencyMHz)
		b.WriteString("Waiting...")
		return b.String()
	}
	m := s.Last
	fmt.Fprintf(&b, "T:%.1fC H:%.0f%%\n", m.Temperature, m.Humidity)
	fmt.Fprintf(&b, "Gas:%.0fk\n", float64(m.GasResistance)/1000)
	fmt.Fprintf(&b, "%s RX #%04d\n", node.ID, m.Seq)
	fmt.Fprintf(&b, "Net:%d %dMHz\n", node.NetworkID, node.FrequencyMHz)
	fmt.Fprintf(&b, "RSSI:%d SNR:%d #%d", m.RSSI, m.SNR, s.Count)
	return b.String()
}
