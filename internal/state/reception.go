package state

import (
	"sync"

	"github.com/taoyao-code/lora-node/internal/protocol/rylr"
)

// Reception 接收共享槽：最近一条解码消息加单调递增的接收计数。
// 写方是接收循环（每个校验通过的帧写一次），读方是显示任务与 HTTP 接口。
// 纪律：锁内只做拷贝，显示重绘等慢操作一律在锁外进行，
// 使快速接收路径永远不会卡在慢消费方后面。
type Reception struct {
	mu    sync.Mutex
	last  rylr.Message
	valid bool
	count uint64
}

// Snapshot 共享槽的一致快照：消息与计数在同一临界区内拷出，
// 读方看到的计数必然对应拷出的消息。
type Snapshot struct {
	Last  rylr.Message
	Valid bool
	Count uint64
}

// Publish 写入新消息并递增计数（同一临界区内成对更新），返回新计数。
// 仅覆盖单槽：无历史、无按序列号去重。
func (r *Reception) Publish(m rylr.Message) uint64 {
	r.mu.Lock()
	r.last = m
	r.valid = true
	r.count++
	n := r.count
	r.mu.Unlock()
	return n
}

// Snapshot 拷出当前消息与计数，随即释放锁
func (r *Reception) Snapshot() Snapshot {
	r.mu.Lock()
	s := Snapshot{Last: r.last, Valid: r.valid, Count: r.count}
	r.mu.Unlock()
	return s
}
