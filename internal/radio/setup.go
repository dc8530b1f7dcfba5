package radio

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/lora-node/internal/config"
)

// inputFlusher go.bug.st/serial.Port 提供的输入缓冲复位能力
type inputFlusher interface {
	ResetInputBuffer() error
}

// Configure 执行 RYLR998 的启动配置对话：节点地址、网络号、频段与射频参数。
// 每条命令以 CRLF 结尾并等待固定的稳定时间；结束时清空模块残留的应答字节，
// 避免混入首个接收帧。必须在接收循环启动前完成。
func Configure(ch io.ReadWriter, node cfgpkg.NodeConfig, rc cfgpkg.RadioConfig, log *zap.Logger) error {
	cmds := []string{
		"AT",
		fmt.Sprintf("AT+ADDRESS=%d", node.Address),
		fmt.Sprintf("AT+NETWORKID=%d", node.NetworkID),
		fmt.Sprintf("AT+BAND=%d000000", node.FrequencyMHz),
		fmt.Sprintf("AT+PARAMETER=%s", rc.Parameter),
	}
	for _, cmd := range cmds {
		log.Info("sending AT command", zap.String("cmd", cmd))
		if _, err := io.WriteString(ch, cmd+"\r\n"); err != nil {
			return fmt.Errorf("send %q: %w", cmd, err)
		}
		time.Sleep(rc.SettleDelay)
	}
	if f, ok := ch.(inputFlusher); ok {
		if err := f.ResetInputBuffer(); err != nil {
			return fmt.Errorf("flush input: %w", err)
		}
	}
	log.Info("radio configured",
		zap.Uint16("address", node.Address),
		zap.Uint8("networkId", node.NetworkID),
		zap.Uint32("frequencyMhz", node.FrequencyMHz),
	)
	return nil
}
