package rylr

import (
	"bytes"
	"testing"
)

func TestAppendAckFrame_Accept(t *testing.T) {
	frame, err := AppendAckFrame(nil, 1, 5, true)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := append([]byte("AT+SEND=1,2,"), 0x01, 0x05, '\r', '\n')
	if !bytes.Equal(frame, want) {
		t.Fatalf("frame mismatch:\n got %q\nwant %q", frame, want)
	}
}

func TestAppendAckFrame_Reject(t *testing.T) {
	frame, err := AppendAckFrame(nil, 1, 300, false)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	// seq=300 的 varint 为 AC 02，载荷 3 字节
	want := append([]byte("AT+SEND=1,3,"), 0x02, 0xAC, 0x02, '\r', '\n')
	if !bytes.Equal(frame, want) {
		t.Fatalf("frame mismatch:\n got %q\nwant %q", frame, want)
	}
}

func TestSendAck_WritesSingleFrame(t *testing.T) {
	var out bytes.Buffer
	if err := SendAck(&out, 1, 5, true); err != nil {
		t.Fatalf("send: %v", err)
	}
	if !bytes.HasPrefix(out.Bytes(), []byte("AT+SEND=1,2,")) || !bytes.HasSuffix(out.Bytes(), []byte("\r\n")) {
		t.Fatalf("unexpected output: %q", out.Bytes())
	}
	// 载荷可经解码还原
	payload := out.Bytes()[len("AT+SEND=1,2,") : out.Len()-2]
	ack, err := DecodeAck(payload)
	if err != nil || ack.MsgType != MsgTypeAck || ack.Seq != 5 {
		t.Fatalf("payload decode: %+v err=%v", ack, err)
	}
}
