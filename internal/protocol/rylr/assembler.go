package rylr

// State 帧组装器状态
type State uint8

const (
	StateIdle         State = iota // 缓冲为空
	StateAccumulating              // 已有字节，终止符未出现
	StateComplete                  // 已见到终止符，待消费
)

// frameTerminator 帧终止字节。二进制载荷未做转义，载荷中出现同值字节会提前
// 截断帧；依赖长度前缀解析与 CRC 校验拒绝由此产生的坏帧，不做字节填充。
const frameTerminator = '\n'

// DefaultBufferCapacity 按 RYLR998 最大载荷加帧头裕量取值
const DefaultBufferCapacity = 255

// Assembler 逐字节组装一帧。缓冲为固定容量（数组+长度语义），
// 满后丢弃而不扩容，以约束最坏情况下的内存占用。
type Assembler struct {
	buf     []byte
	state   State
	dropped uint64
}

// NewAssembler 创建指定容量的组装器
func NewAssembler(capacity int) *Assembler {
	if capacity <= 0 {
		capacity = DefaultBufferCapacity
	}
	return &Assembler{buf: make([]byte, 0, capacity)}
}

// Feed 消费一段输入，直到成帧或输入耗尽。
// 返回尚未消费的剩余字节与是否成帧；成帧后必须先 Frame/Reset 再投喂剩余字节。
// 超出容量的字节被丢弃计数，后续的解析或 CRC 校验是真正的完整性兜底。
func (a *Assembler) Feed(p []byte) (rest []byte, complete bool) {
	if a.state == StateComplete {
		return p, true
	}
	for i, b := range p {
		if len(a.buf) < cap(a.buf) {
			a.buf = append(a.buf, b)
		} else {
			a.dropped++
		}
		if b == frameTerminator {
			a.state = StateComplete
			return p[i+1:], true
		}
		a.state = StateAccumulating
	}
	return nil, false
}

// Frame 返回已累积的原始帧字节（含终止符，若未被容量丢弃）
func (a *Assembler) Frame() []byte { return a.buf }

// State 返回当前状态
func (a *Assembler) State() State { return a.state }

// Dropped 返回累计因缓冲区满而丢弃的字节数
func (a *Assembler) Dropped() uint64 { return a.dropped }

// Reset 无条件清空缓冲并回到 Idle，无论上一帧解析成功与否
func (a *Assembler) Reset() {
	a.buf = a.buf[:0]
	a.state = StateIdle
}
