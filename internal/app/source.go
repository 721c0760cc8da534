package app

import (
	"errors"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/rs/zerolog"
)

// CameraSource reads frames from a camera and runs the detector on them.
type CameraSource struct {
	camera   capture.Camera
	detector detector.Detector
	thumb    detector.ThumbRule
	log      zerolog.Logger
}

// NewCameraSource opens camera and returns a Source over it. The source owns
// both the camera and the detector.
func NewCameraSource(camera capture.Camera, det detector.Detector, thumb detector.ThumbRule, log zerolog.Logger) (*CameraSource, error) {
	if !camera.IsOpen() {
		if err := camera.Open(); err != nil {
			return nil, err
		}
	}
	return &CameraSource{
		camera:   camera,
		detector: det,
		thumb:    thumb,
		log:      log.With().Str("component", "source").Logger(),
	}, nil
}

// Next reads one frame. A detector failure is logged and reported as no
// hand; only camera failures are returned.
func (s *CameraSource) Next(detect bool) (detector.HandObservation, error) {
	frame, err := s.camera.ReadFrame()
	if err != nil {
		return detector.HandObservation{}, err
	}
	defer frame.Close()

	if !detect {
		return detector.HandObservation{}, nil
	}

	hands, err := s.detector.Detect(frame)
	if err != nil {
		s.log.Debug().Err(err).Msg("detection failed")
		return detector.HandObservation{}, nil
	}
	return detector.First(hands, frame.Cols(), frame.Rows(), s.thumb), nil
}

// Close releases the detector and the camera.
func (s *CameraSource) Close() error {
	return errors.Join(s.detector.Close(), s.camera.Close())
}
