package feedback

import (
	"io"
	"strings"
	"sync"

	"zentime/internal/core/timing"
)

const bell = "\a"

// Bell rings the terminal bell for cues. Light impacts stay silent unless
// LightBells is set.
type Bell struct {
	mu         sync.Mutex
	out        io.Writer
	LightBells bool
}

// NewBell creates a Bell writing to out.
func NewBell(out io.Writer) *Bell {
	return &Bell{out: out}
}

func (b *Bell) Impact(kind timing.ImpactKind) error {
	if kind == timing.ImpactLight && !b.LightBells {
		return nil
	}
	return b.ring(1)
}

func (b *Bell) Success() error {
	return b.ring(2)
}

func (b *Bell) ring(times int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := io.WriteString(b.out, strings.Repeat(bell, times))
	return err
}
