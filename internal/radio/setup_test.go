package radio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/lora-node/internal/config"
)

// fakePort 记录写入并模拟输入缓冲复位
type fakePort struct {
	bytes.Buffer
	flushed bool
}

func (f *fakePort) Read(p []byte) (int, error) { return 0, nil }
func (f *fakePort) ResetInputBuffer() error {
	f.flushed = true
	return nil
}

func TestConfigure_CommandDialogue(t *testing.T) {
	port := &fakePort{}
	node := cfgpkg.NodeConfig{Address: 2, NetworkID: 18, FrequencyMHz: 915}
	rc := cfgpkg.RadioConfig{Parameter: "7,9,1,7", SettleDelay: 0}

	err := Configure(port, node, rc, zap.NewNop())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(port.String(), "\r\n"), "\r\n")
	assert.Equal(t, []string{
		"AT",
		"AT+ADDRESS=2",
		"AT+NETWORKID=18",
		"AT+BAND=915000000",
		"AT+PARAMETER=7,9,1,7",
	}, lines)
	assert.True(t, port.flushed, "pending responses must be flushed before RX starts")
}
