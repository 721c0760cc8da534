//go:build linux

package action

import (
	"fmt"
	"sync"

	"github.com/jfreymuth/pulse"
	"github.com/jfreymuth/pulse/proto"
)

const defaultSink = "@DEFAULT_SINK@"

// pulseVolume controls the default PulseAudio (or PipeWire-pulse) sink. The
// client connection is opened on first use and reused.
type pulseVolume struct {
	mu     sync.Mutex
	client *pulse.Client
}

func newPlatformVolume() volumeControl {
	return &pulseVolume{}
}

func (p *pulseVolume) connect() (*pulse.Client, error) {
	if p.client != nil {
		return p.client, nil
	}
	c, err := pulse.NewClient(pulse.ClientApplicationName("mudra"))
	if err != nil {
		return nil, fmt.Errorf("connect pulse: %w", err)
	}
	p.client = c
	return c, nil
}

// reset drops a connection that failed so the next call reconnects.
func (p *pulseVolume) reset() {
	if p.client != nil {
		p.client.Close()
		p.client = nil
	}
}

func (p *pulseVolume) sinkInfo(c *pulse.Client) (*proto.GetSinkInfoReply, error) {
	var info proto.GetSinkInfoReply
	err := c.RawRequest(&proto.GetSinkInfo{SinkIndex: proto.Undefined, SinkName: defaultSink}, &info)
	if err != nil {
		return nil, fmt.Errorf("get sink info: %w", err)
	}
	return &info, nil
}

func (p *pulseVolume) Volume() (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	c, err := p.connect()
	if err != nil {
		return 0, err
	}
	info, err := p.sinkInfo(c)
	if err != nil {
		p.reset()
		return 0, err
	}
	if len(info.ChannelVolumes) == 0 {
		return 0, nil
	}

	var sum float64
	for _, v := range info.ChannelVolumes {
		sum += float64(v)
	}
	avg := sum / float64(len(info.ChannelVolumes))
	return clampPercent(avg / float64(proto.VolumeNorm) * 100), nil
}

func (p *pulseVolume) SetVolume(level float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	c, err := p.connect()
	if err != nil {
		return err
	}
	info, err := p.sinkInfo(c)
	if err != nil {
		p.reset()
		return err
	}

	channels := len(info.ChannelVolumes)
	if channels == 0 {
		channels = 2
	}
	raw := uint32(level / 100 * float64(proto.VolumeNorm))
	volumes := make(proto.ChannelVolumes, channels)
	for i := range volumes {
		volumes[i] = raw
	}

	err = c.RawRequest(&proto.SetSinkVolume{
		SinkIndex:      proto.Undefined,
		SinkName:       defaultSink,
		ChannelVolumes: volumes,
	}, nil)
	if err != nil {
		p.reset()
		return fmt.Errorf("set sink volume: %w", err)
	}
	return nil
}
