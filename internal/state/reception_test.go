package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taoyao-code/lora-node/internal/protocol/rylr"
)

func TestReception_EmptySnapshot(t *testing.T) {
	var r Reception
	s := r.Snapshot()
	assert.False(t, s.Valid)
	assert.Equal(t, uint64(0), s.Count)
}

func TestReception_PublishIncrementsOnce(t *testing.T) {
	var r Reception
	n := r.Publish(rylr.Message{Seq: 5})
	require.Equal(t, uint64(1), n)
	s := r.Snapshot()
	require.True(t, s.Valid)
	assert.Equal(t, uint64(1), s.Count)
	assert.Equal(t, uint16(5), s.Last.Seq)

	// 单槽覆盖语义：不去重，重复序列号同样计数
	r.Publish(rylr.Message{Seq: 5})
	s = r.Snapshot()
	assert.Equal(t, uint64(2), s.Count)
}

// 读方拷出的计数必须与拷出的消息成对：
// 写方以 Seq==计数 的约定发布，任何拆对的交错都会被发现
func TestReception_SnapshotPairConsistency(t *testing.T) {
	var r Reception
	const writes = 10000

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 1; i <= writes; i++ {
			r.Publish(rylr.Message{Seq: uint16(i)})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < writes; i++ {
			s := r.Snapshot()
			if !s.Valid {
				if s.Count != 0 {
					t.Errorf("count %d with no message", s.Count)
				}
				continue
			}
			if uint64(s.Last.Seq) != s.Count {
				t.Errorf("desynchronized pair: seq=%d count=%d", s.Last.Seq, s.Count)
			}
		}
	}()
	wg.Wait()

	s := r.Snapshot()
	assert.Equal(t, uint64(writes), s.Count)
}
