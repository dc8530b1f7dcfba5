package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry 创建自定义 Prometheus Registry，并注册常用采集器
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler 返回 Prometheus 指标 HTTP 处理器
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// AppMetrics 接收链路业务指标
type AppMetrics struct {
	SerialBytesRead  prometheus.Counter
	FramesReceived   prometheus.Counter     // 完整帧（见到终止符）
	FramesDecoded    prometheus.Counter     // 校验与解码全部通过
	ParseFailTotal   *prometheus.CounterVec // labels: reason
	BytesDropped     prometheus.Counter     // 缓冲区满丢弃的字节
	AcksSent         prometheus.Counter
	AckEncodeFailure prometheus.Counter
	LastRSSI         prometheus.Gauge
	LastSNR          prometheus.Gauge
}

// NewAppMetrics 注册并返回业务指标
func NewAppMetrics(reg *prometheus.Registry) *AppMetrics {
	m := &AppMetrics{
		SerialBytesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "serial_bytes_read_total",
			Help: "Total bytes read from the radio serial channel.",
		}),
		FramesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rylr_frames_received_total",
			Help: "Complete frames observed (terminator seen).",
		}),
		FramesDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rylr_frames_decoded_total",
			Help: "Frames that passed CRC validation and payload decode.",
		}),
		ParseFailTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rylr_parse_fail_total",
			Help: "Discarded frames by failure reason.",
		}, []string{"reason"}),
		BytesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rylr_rx_bytes_dropped_total",
			Help: "Bytes discarded because the frame buffer was full.",
		}),
		AcksSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rylr_acks_sent_total",
			Help: "Acknowledgment frames written to the radio.",
		}),
		AckEncodeFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rylr_ack_encode_fail_total",
			Help: "Ack sends skipped because payload encoding failed.",
		}),
		LastRSSI: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rylr_last_rssi_dbm",
			Help: "RSSI of the most recent decoded frame.",
		}),
		LastSNR: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rylr_last_snr_db",
			Help: "SNR of the most recent decoded frame.",
		}),
	}
	reg.MustRegister(
		m.SerialBytesRead, m.FramesReceived, m.FramesDecoded, m.ParseFailTotal,
		m.BytesDropped, m.AcksSent, m.AckEncodeFailure, m.LastRSSI, m.LastSNR,
	)
	return m
}
