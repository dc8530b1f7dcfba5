package rylr

import (
	"fmt"
	"io"
	"strconv"
)

const ackCmdPrefix = "AT+SEND="

// maxAckPayload 确认载荷编码上限：1 字节类型 + u16 varint 最多 3 字节
const maxAckPayload = 4

// AppendAckFrame 构造完整的下行确认帧并追加到 dst：
// AT+SEND=<peer>,<len>,<二进制载荷>\r\n
// 载荷编码失败时不产生任何输出（不发半帧）。
func AppendAckFrame(dst []byte, peer, seq uint16, accepted bool) ([]byte, error) {
	msgType := uint8(MsgTypeAck)
	if !accepted {
		msgType = MsgTypeNack
	}
	var payload [maxAckPayload]byte
	n, err := (AckPacket{MsgType: msgType, Seq: seq}).Encode(payload[:])
	if err != nil {
		return dst, err
	}
	dst = append(dst, ackCmdPrefix...)
	dst = strconv.AppendUint(dst, uint64(peer), 10)
	dst = append(dst, ',')
	dst = strconv.AppendInt(dst, int64(n), 10)
	dst = append(dst, ',')
	dst = append(dst, payload[:n]...)
	dst = append(dst, '\r', '\n')
	return dst, nil
}

// SendAck 向串口写出确认帧。写是同步阻塞的——帧很小且有界，可接受。
// 仅应在帧通过 CRC 与解码校验后调用。
func SendAck(w io.Writer, peer, seq uint16, accepted bool) error {
	frame, err := AppendAckFrame(nil, peer, seq, accepted)
	if err != nil {
		return err
	}
	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("write ack: %w", err)
	}
	return nil
}
