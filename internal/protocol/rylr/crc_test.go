package rylr

import "testing"

// CRC-16/IBM-3740 标准校验向量
func TestChecksum_ReferenceVectors(t *testing.T) {
	if got := Checksum([]byte("123456789")); got != 0x29B1 {
		t.Fatalf("check value mismatch: got 0x%04X want 0x29B1", got)
	}
	if got := Checksum(nil); got != 0xFFFF {
		t.Fatalf("empty input: got 0x%04X want 0xFFFF", got)
	}
}

func TestChecksum_Deterministic(t *testing.T) {
	data := []byte{0x05, 0x9E, 0x04, 0xE0, 0x2B, 0xB9, 0x60}
	a := Checksum(data)
	b := Checksum(data)
	if a != b {
		t.Fatalf("not deterministic: 0x%04X vs 0x%04X", a, b)
	}
}
