package rylr

import "errors"

var (
	// ErrMalformedPacket 二进制载荷不符合预期编码（截断、varint 越界或有多余字节）
	ErrMalformedPacket = errors.New("malformed packet")
	// ErrBufferTooSmall 调用方提供的输出缓冲不足——定长缓冲尺寸配置错误
	ErrBufferTooSmall = errors.New("buffer too small")
)

// ACK 载荷的消息类型
const (
	MsgTypeAck  = 1 // 校验通过
	MsgTypeNack = 2 // 校验失败（协议保留，当前链路不主动发送）
)

// TelemetryPacket 遥测数据包，与发送端逐字节对齐。
// 线上编码为 postcard 风格：无符号整数用 LEB128 varint，
// 有符号整数先 zigzag 再 varint，按字段声明顺序排列。
type TelemetryPacket struct {
	Seq           uint16 // 序列号
	Temperature   int16  // 温度，0.1℃ 单位
	Humidity      uint16 // 湿度，0.01% 单位
	GasResistance uint32 // 气阻，欧姆
}

// AckPacket 确认包：1 字节类型 + 序列号
type AckPacket struct {
	MsgType uint8
	Seq     uint16
}

// maxVarint16 / maxVarint32 对应 varint 编码的最大字节数
const (
	maxVarint16 = 3
	maxVarint32 = 5
)

func zigzag16(v int16) uint16 {
	return uint16(v<<1) ^ uint16(v>>15)
}

func unzigzag16(u uint16) int16 {
	return int16(u>>1) ^ -int16(u&1)
}

func appendUvarint(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// takeUvarint 从 *data 头部消费一个 varint 并推进切片。
// maxBytes 限制编码长度，防止恶意的超长 continuation。
func takeUvarint(data *[]byte, maxBytes int) (uint64, error) {
	var v uint64
	for i := 0; i < maxBytes; i++ {
		if len(*data) == 0 {
			return 0, ErrMalformedPacket
		}
		b := (*data)[0]
		*data = (*data)[1:]
		v |= uint64(b&0x7F) << (7 * i)
		if b&0x80 == 0 {
			return v, nil
		}
	}
	return 0, ErrMalformedPacket
}

func takeUvarint16(data *[]byte) (uint16, error) {
	v, err := takeUvarint(data, maxVarint16)
	if err != nil || v > 0xFFFF {
		return 0, ErrMalformedPacket
	}
	return uint16(v), nil
}

func takeUvarint32(data *[]byte) (uint32, error) {
	v, err := takeUvarint(data, maxVarint32)
	if err != nil || v > 0xFFFFFFFF {
		return 0, ErrMalformedPacket
	}
	return uint32(v), nil
}

// EncodeTelemetry 序列化遥测包（不含 CRC 尾部）
func EncodeTelemetry(p TelemetryPacket) []byte {
	buf := make([]byte, 0, maxVarint16*3+maxVarint32)
	buf = appendUvarint(buf, uint64(p.Seq))
	buf = appendUvarint(buf, uint64(zigzag16(p.Temperature)))
	buf = appendUvarint(buf, uint64(p.Humidity))
	buf = appendUvarint(buf, uint64(p.GasResistance))
	return buf
}

// DecodeTelemetry 反序列化遥测包。输入须恰好为一个完整编码：
// 截断或尾随多余字节均返回 ErrMalformedPacket。
func DecodeTelemetry(data []byte) (TelemetryPacket, error) {
	var p TelemetryPacket
	rest := data
	seq, err := takeUvarint16(&rest)
	if err != nil {
		return TelemetryPacket{}, err
	}
	zt, err := takeUvarint16(&rest)
	if err != nil {
		return TelemetryPacket{}, err
	}
	hum, err := takeUvarint16(&rest)
	if err != nil {
		return TelemetryPacket{}, err
	}
	gas, err := takeUvarint32(&rest)
	if err != nil {
		return TelemetryPacket{}, err
	}
	if len(rest) != 0 {
		return TelemetryPacket{}, ErrMalformedPacket
	}
	p.Seq = seq
	p.Temperature = unzigzag16(zt)
	p.Humidity = hum
	p.GasResistance = gas
	return p, nil
}

// Encode 将确认包写入调用方缓冲，返回写入字节数。
// 仅在缓冲不足时失败——视为定长缓冲尺寸错误，由调用方记录并放弃发送。
func (a AckPacket) Encode(dst []byte) (int, error) {
	if len(dst) < 1 {
		return 0, ErrBufferTooSmall
	}
	dst[0] = a.MsgType
	n := 1
	v := uint64(a.Seq)
	for v >= 0x80 {
		if n >= len(dst) {
			return 0, ErrBufferTooSmall
		}
		dst[n] = byte(v) | 0x80
		n++
		v >>= 7
	}
	if n >= len(dst) {
		return 0, ErrBufferTooSmall
	}
	dst[n] = byte(v)
	return n + 1, nil
}

// DecodeAck 反序列化确认包（测试与对端实现共用的往返律）
func DecodeAck(data []byte) (AckPacket, error) {
	if len(data) < 1 {
		return AckPacket{}, ErrMalformedPacket
	}
	rest := data[1:]
	seq, err := takeUvarint16(&rest)
	if err != nil {
		return AckPacket{}, err
	}
	if len(rest) != 0 {
		return AckPacket{}, ErrMalformedPacket
	}
	return AckPacket{MsgType: data[0], Seq: seq}, nil
}
