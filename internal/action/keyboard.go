package action

import (
	"fmt"
	"sync"

	"github.com/micmonay/keybd_event"
)

var arrowKeys = map[Direction]int{
	Up:    keybd_event.VK_UP,
	Down:  keybd_event.VK_DOWN,
	Left:  keybd_event.VK_LEFT,
	Right: keybd_event.VK_RIGHT,
}

// Keyboard sends arrow key presses. The virtual device is created on the
// first press.
type Keyboard struct {
	once sync.Once
	kb   keybd_event.KeyBonding
	err  error
	mu   sync.Mutex
}

func NewKeyboard() *Keyboard {
	return &Keyboard{}
}

func (k *Keyboard) init() error {
	k.once.Do(func() {
		k.kb, k.err = keybd_event.NewKeyBonding()
	})
	return k.err
}

// Press sends one down and up of the arrow key for d.
func (k *Keyboard) Press(d Direction) error {
	code, ok := arrowKeys[d]
	if !ok {
		return fmt.Errorf("press key: unknown direction %d", int(d))
	}
	if err := k.init(); err != nil {
		return fmt.Errorf("keyboard: %w", err)
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	k.kb.Clear()
	k.kb.SetKeys(code)
	return k.kb.Launching()
}
