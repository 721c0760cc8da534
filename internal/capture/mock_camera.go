package capture

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockCamera produces blank frames of a fixed size. It stops with ErrNoFrame
// after limit frames; a negative limit never stops.
type MockCamera struct {
	width  int
	height int
	limit  int
	read   int
	mu     sync.Mutex
	open   bool
}

func NewMockCamera(width, height, limit int) *MockCamera {
	return &MockCamera{width: width, height: height, limit: limit}
}

func (c *MockCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = true
	c.read = 0
	return nil
}

func (c *MockCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
	return nil
}

func (c *MockCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open {
		return nil, ErrCameraNotOpen
	}
	if c.limit >= 0 && c.read >= c.limit {
		return nil, ErrNoFrame
	}
	c.read++

	mat := gocv.NewMatWithSize(c.height, c.width, gocv.MatTypeCV8UC3)
	return &mat, nil
}

func (c *MockCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Frames returns how many frames have been read since Open.
func (c *MockCamera) Frames() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.read
}
