package node

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	cfgpkg "github.com/taoyao-code/lora-node/internal/config"
	"github.com/taoyao-code/lora-node/internal/metrics"
	"github.com/taoyao-code/lora-node/internal/protocol/rylr"
	"github.com/taoyao-code/lora-node/internal/state"
)

// Receiver 接收任务：组帧 → 解析 → 发布 → 确认。
// 串口读与 ACK 写都由本任务独占；显示任务只读共享槽，从不碰串口。
type Receiver struct {
	ch          io.ReadWriter
	cfg         cfgpkg.NodeConfig
	asm         *rylr.Assembler
	reception   *state.Reception
	m           *metrics.AppMetrics
	log         *zap.Logger
	failLog     *rate.Limiter // 解析失败日志限速，防止噪声字节刷屏
	lastDropped uint64
}

// New 创建接收任务
func New(ch io.ReadWriter, cfg cfgpkg.NodeConfig, rec *state.Reception, m *metrics.AppMetrics, log *zap.Logger) *Receiver {
	return &Receiver{
		ch:        ch,
		cfg:       cfg,
		asm:       rylr.NewAssembler(cfg.RxBufferSize),
		reception: rec,
		m:         m,
		log:       log,
		failLog:   rate.NewLimiter(rate.Every(time.Second), 5),
	}
}

// Run 读循环：把串口当前可读的字节一次性取走再处理，
// 避免逐字节读取放大系统调用开销。串口读超时返回 n=0 时继续轮询；
// EOF 视为通道关闭正常退出；ctx 取消后退出。
func (r *Receiver) Run(ctx context.Context) error {
	buf := make([]byte, 256)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		n, err := r.ch.Read(buf)
		if n > 0 {
			r.m.SerialBytesRead.Add(float64(n))
			r.feed(buf[:n])
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("serial read: %w", err)
		}
	}
}

// feed 将一段字节投喂组装器；一次投喂可能跨越多个帧边界
func (r *Receiver) feed(p []byte) {
	for {
		rest, complete := r.asm.Feed(p)
		if d := r.asm.Dropped(); d != r.lastDropped {
			r.m.BytesDropped.Add(float64(d - r.lastDropped))
			if r.failLog.Allow() {
				r.log.Warn("rx buffer full, dropping bytes", zap.Uint64("dropped", d-r.lastDropped))
			}
			r.lastDropped = d
		}
		if !complete {
			return
		}
		r.handleFrame(r.asm.Frame())
		// 无论解析结果如何都清空缓冲
		r.asm.Reset()
		if len(rest) == 0 {
			return
		}
		p = rest
	}
}

// handleFrame 处理一个完整帧。所有解析失败都就地恢复：
// 记日志、计指标、丢帧，然后继续等下一帧。
func (r *Receiver) handleFrame(frame []byte) {
	r.m.FramesReceived.Inc()
	msg, err := rylr.Parse(frame)
	if err != nil {
		r.m.ParseFailTotal.WithLabelValues(failReason(err)).Inc()
		if r.failLog.Allow() {
			r.log.Warn("frame discarded", zap.Int("len", len(frame)), zap.Error(err))
		}
		return
	}

	total := r.reception.Publish(msg)
	r.m.FramesDecoded.Inc()
	r.m.LastRSSI.Set(float64(msg.RSSI))
	r.m.LastSNR.Set(float64(msg.SNR))
	r.log.Info("telemetry received",
		zap.Uint16("seq", msg.Seq),
		zap.Float64("temperature", msg.Temperature),
		zap.Float64("humidity", msg.Humidity),
		zap.Uint32("gasResistance", msg.GasResistance),
		zap.Int("rssi", msg.RSSI),
		zap.Int("snr", msg.SNR),
		zap.Uint64("total", total),
	)

	// 全部校验通过后才回 ACK；当前链路不对坏帧发 NACK
	if err := rylr.SendAck(r.ch, r.cfg.PeerAddress, msg.Seq, true); err != nil {
		if errors.Is(err, rylr.ErrBufferTooSmall) {
			r.m.AckEncodeFailure.Inc()
		}
		r.log.Error("send ack failed", zap.Uint16("seq", msg.Seq), zap.Error(err))
		return
	}
	r.m.AcksSent.Inc()
	r.log.Debug("ack sent", zap.Uint16("seq", msg.Seq))
}

// failReason 失败归类，作为指标 label（低基数）
func failReason(err error) string {
	switch {
	case errors.Is(err, rylr.ErrFrameTooShort):
		return "short"
	case errors.Is(err, rylr.ErrMissingDelimiters):
		return "delimiters"
	case errors.Is(err, rylr.ErrLengthFieldUnparseable):
		return "length"
	case errors.Is(err, rylr.ErrPayloadLengthExceedsBuffer):
		return "overrun"
	case errors.Is(err, rylr.ErrPayloadTooShortForChecksum):
		return "payload_short"
	case errors.Is(err, rylr.ErrChecksumMismatch):
		return "crc"
	case errors.Is(err, rylr.ErrMalformedPacket):
		return "decode"
	case errors.Is(err, rylr.ErrTrailerUnparseable):
		return "trailer"
	default:
		return "other"
	}
}
