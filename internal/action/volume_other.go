//go:build !linux && !darwin

package action

type unsupportedVolume struct{}

func newPlatformVolume() volumeControl {
	return unsupportedVolume{}
}

func (unsupportedVolume) Volume() (float64, error) { return 0, ErrUnsupported }

func (unsupportedVolume) SetVolume(float64) error { return ErrUnsupported }
