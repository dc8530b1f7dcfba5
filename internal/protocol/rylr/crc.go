package rylr

import "github.com/sigurn/crc16"

// crcTable CRC-16/IBM-3740（即 CCITT-FALSE）：poly 0x1021, init 0xFFFF, 无反射
var crcTable = crc16.MakeTable(crc16.CRC16_CCITT_FALSE)

// Checksum 计算数据段的 CRC-16 校验值。
// 发送端约定在二进制载荷尾部附加该值，高字节在前。
func Checksum(data []byte) uint16 {
	return crc16.Checksum(data, crcTable)
}
