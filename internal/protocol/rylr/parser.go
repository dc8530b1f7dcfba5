package rylr

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrFrameTooShort              = errors.New("frame too short or missing prefix")
	ErrMissingDelimiters          = errors.New("missing delimiters")
	ErrLengthFieldUnparseable     = errors.New("length field unparseable")
	ErrPayloadLengthExceedsBuffer = errors.New("payload length exceeds buffer")
	ErrPayloadTooShortForChecksum = errors.New("payload too short for checksum")
	ErrChecksumMismatch           = errors.New("checksum mismatch")
	ErrTrailerUnparseable         = errors.New("trailer unparseable")
)

var framePrefix = []byte("+RCV=")

// minFrameLen 前缀 + 两个逗号 + 最小载荷与信号字段的保守下界
const minFrameLen = 10

// Message 一次成功接收的解码结果（已换算为显示单位），值语义，不持有缓冲
type Message struct {
	Seq           uint16
	Temperature   float64 // ℃
	Humidity      float64 // %
	GasResistance uint32  // Ω
	RSSI          int     // dBm
	SNR           int     // dB
}

// Parse 解析一个完整的 +RCV 混合帧：
// ASCII 帧头与长度字段定位二进制载荷，载荷尾部两字节为大端 CRC-16，
// 载荷之后仍是 ASCII 的 RSSI/SNR 字段。任一步失败即整帧丢弃，
// 不产生部分状态；调用方无论结果如何都应清空原始缓冲。
func Parse(raw []byte) (Message, error) {
	if len(raw) < minFrameLen || !bytes.HasPrefix(raw, framePrefix) {
		return Message{}, ErrFrameTooShort
	}

	// 前缀后找两个逗号，定出地址、长度、载荷起点三个边界
	rest := raw[len(framePrefix):]
	c1 := bytes.IndexByte(rest, ',')
	if c1 < 0 {
		return Message{}, ErrMissingDelimiters
	}
	c2 := bytes.IndexByte(rest[c1+1:], ',')
	if c2 < 0 {
		return Message{}, ErrMissingDelimiters
	}
	comma1 := len(framePrefix) + c1
	comma2 := comma1 + 1 + c2

	payloadLen, err := strconv.Atoi(string(raw[comma1+1 : comma2]))
	if err != nil || payloadLen < 0 {
		return Message{}, ErrLengthFieldUnparseable
	}

	// 长度字段可能被伪造或在空中损坏，不可盲信
	payloadStart := comma2 + 1
	payloadEnd := payloadStart + payloadLen
	if payloadEnd > len(raw) {
		return Message{}, ErrPayloadLengthExceedsBuffer
	}
	payload := raw[payloadStart:payloadEnd]

	// 最小 3 字节：1 字节数据 + 2 字节 CRC
	if len(payload) < 3 {
		return Message{}, ErrPayloadTooShortForChecksum
	}
	dataLen := len(payload) - 2
	data := payload[:dataLen]
	got := uint16(payload[dataLen])<<8 | uint16(payload[dataLen+1])

	// 链路无重传，这里是唯一的线上损坏检出点
	want := Checksum(data)
	if got != want {
		return Message{}, fmt.Errorf("%w: got 0x%04X want 0x%04X", ErrChecksumMismatch, got, want)
	}

	pkt, err := DecodeTelemetry(data)
	if err != nil {
		return Message{}, err
	}

	// 载荷之后回到 ASCII：,<rssi>,<snr>\r\n
	parts := strings.Split(string(raw[payloadEnd:]), ",")
	if len(parts) < 3 {
		return Message{}, ErrTrailerUnparseable
	}
	rssi, err := strconv.Atoi(parts[1])
	if err != nil {
		return Message{}, ErrTrailerUnparseable
	}
	snr, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return Message{}, ErrTrailerUnparseable
	}

	return Message{
		Seq:           pkt.Seq,
		Temperature:   float64(pkt.Temperature) / 10,
		Humidity:      float64(pkt.Humidity) / 100,
		GasResistance: pkt.GasResistance,
		RSSI:          rssi,
		SNR:           snr,
	}, nil
}
