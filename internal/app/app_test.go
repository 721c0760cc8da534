package app

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/mode"
	"github.com/ayusman/mudra/internal/store"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errCamera = errors.New("camera unplugged")

// fakeSource replays observations, then fails with err forever.
type fakeSource struct {
	mu       sync.Mutex
	frames   []detector.HandObservation
	err      error
	next     int
	detected int
	skipped  int
	closed   bool
}

func (s *fakeSource) Next(detect bool) (detector.HandObservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.frames) {
		return detector.HandObservation{}, s.err
	}
	obs := s.frames[s.next]
	s.next++
	if !detect {
		s.skipped++
		return detector.HandObservation{}, nil
	}
	s.detected++
	return obs, nil
}

func (s *fakeSource) Close() error {
	s.closed = true
	return nil
}

func pose(fingers string) detector.HandObservation {
	landmarks := make([]detector.Landmark, detector.NumLandmarks)
	for id := range landmarks {
		landmarks[id] = detector.Landmark{ID: id}
	}
	var state detector.FingerState
	for i, c := range fingers {
		state[i] = c == '1'
	}
	return detector.HandObservation{Landmarks: landmarks, Fingers: state}
}

func repeat(obs detector.HandObservation, n int) []detector.HandObservation {
	frames := make([]detector.HandObservation, n)
	for i := range frames {
		frames[i] = obs
	}
	return frames
}

// clock30 returns a clock advancing one 30fps frame per call.
func clock30() func() time.Time {
	t := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	first := true
	return func() time.Time {
		if !first {
			t = t.Add(time.Second / 30)
		}
		first = false
		return t
	}
}

func newArrowApp(src Source, rec action.Emitter, journal Journal) *App {
	return New(Config{
		Source:  src,
		Machine: mode.NewArrowMachine(mode.DefaultArrowConfig()),
		Emitter: rec,
		Journal: journal,
		Now:     clock30(),
		Log:     zerolog.Nop(),
	})
}

func TestApp_RunEmitsActions(t *testing.T) {
	src := &fakeSource{frames: repeat(pose("01000"), 25), err: errCamera}
	rec := action.NewRecorder(1920, 1080)
	a := newArrowApp(src, rec, nil)

	err := a.Run(context.Background())
	require.ErrorIs(t, err, ErrFrameRead)
	require.ErrorIs(t, err, errCamera)

	assert.Equal(t, []action.Event{
		action.PressKey(action.Up),
		action.PressKey(action.Up),
		action.PressKey(action.Up),
	}, rec.Events(), "held pose fires at frames 0, 10 and 20")

	status := a.Status()
	assert.Equal(t, uint64(25), status.Frames)
	assert.InDelta(t, 30, status.FPS, 0.01)
	assert.Equal(t, "arrows", status.Mode)
	assert.Equal(t, "SWIPE_UP", status.Gesture)
	require.NotNil(t, status.LastEvent)
	assert.Equal(t, action.PressKey(action.Up), *status.LastEvent)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	src := &fakeSource{frames: repeat(pose("01000"), 5)}
	rec := action.NewRecorder(1920, 1080)
	a := newArrowApp(src, rec, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, a.Run(ctx))
	assert.Zero(t, src.next, "no frame is read after cancellation")
}

func TestApp_ToleratesTransientFailures(t *testing.T) {
	flaky := &flakySource{fails: 2, obs: pose("01000")}
	rec := action.NewRecorder(1920, 1080)
	a := New(Config{
		Source:          flaky,
		Machine:         mode.NewArrowMachine(mode.DefaultArrowConfig()),
		Emitter:         rec,
		MaxReadFailures: 3,
		Log:             zerolog.Nop(),
	})

	err := a.Run(context.Background())
	require.ErrorIs(t, err, ErrFrameRead)
	assert.Equal(t, 1, rec.Count(action.KindPressKey), "the frame after two failures is processed")
}

// flakySource fails fails times, yields obs once, then fails forever.
type flakySource struct {
	fails int
	obs   detector.HandObservation
	calls int
}

func (s *flakySource) Next(bool) (detector.HandObservation, error) {
	s.calls++
	if s.calls == s.fails+1 {
		return s.obs, nil
	}
	return detector.HandObservation{}, errCamera
}

func (s *flakySource) Close() error { return nil }

func TestApp_DisabledSkipsDetection(t *testing.T) {
	src := &fakeSource{frames: repeat(pose("01000"), 10), err: errCamera}
	rec := action.NewRecorder(1920, 1080)
	a := newArrowApp(src, rec, nil)
	a.SetEnabled(false)

	require.ErrorIs(t, a.Run(context.Background()), ErrFrameRead)
	assert.Empty(t, rec.Events())
	assert.Equal(t, 10, src.skipped)
	assert.Zero(t, src.detected)
	assert.False(t, a.Status().Enabled)
	assert.False(t, a.IsEnabled())
}

func TestApp_EmitterErrorIsSkipped(t *testing.T) {
	src := &fakeSource{frames: repeat(pose("01000"), 15), err: errCamera}
	rec := action.NewRecorder(1920, 1080)
	rec.SetError(action.ErrUnsupported)
	a := newArrowApp(src, rec, nil)

	require.ErrorIs(t, a.Run(context.Background()), ErrFrameRead)
	assert.Equal(t, uint64(15), a.Status().Frames, "the loop keeps going")
	assert.Nil(t, a.Status().LastEvent)
}

func TestApp_Subscribe(t *testing.T) {
	src := &fakeSource{frames: repeat(pose("00100"), 3), err: errCamera}
	rec := action.NewRecorder(1920, 1080)
	a := newArrowApp(src, rec, nil)

	updates, cancel := a.Subscribe(10)
	defer cancel()

	require.ErrorIs(t, a.Run(context.Background()), ErrFrameRead)

	var got []Status
	for len(got) < 3 {
		got = append(got, <-updates)
	}
	assert.Equal(t, uint64(1), got[0].Frames)
	assert.Equal(t, uint64(3), got[2].Frames)
	assert.Equal(t, "down", got[0].Direction)

	cancel()
	cancel()
	_, open := <-updates
	assert.False(t, open)
}

func TestApp_SubscribeDropsWhenFull(t *testing.T) {
	src := &fakeSource{frames: repeat(pose("00000"), 5), err: errCamera}
	a := newArrowApp(src, action.NewRecorder(1920, 1080), nil)

	updates, cancel := a.Subscribe(1)
	defer cancel()

	require.ErrorIs(t, a.Run(context.Background()), ErrFrameRead)
	first := <-updates
	assert.Equal(t, uint64(1), first.Frames)
	assert.Empty(t, updates)
}

func TestApp_Journal(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer s.Close()

	sess, err := s.Sessions().Start("arrows", "log")
	require.NoError(t, err)

	src := &fakeSource{frames: repeat(pose("01100"), 11), err: errCamera}
	a := newArrowApp(src, action.NewRecorder(1920, 1080), &StoreJournal{
		Events:    s.Events(),
		SessionID: sess.ID,
	})
	require.ErrorIs(t, a.Run(context.Background()), ErrFrameRead)

	events, err := s.Events().BySession(sess.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "press_key", events[0].Kind)
	assert.Equal(t, "SWIPE_RIGHT", events[0].Gesture)
	assert.JSONEq(t, `{"kind":"press_key","direction":"right"}`, string(events[0].Payload))
}

func TestStoreJournal_SkipsMoves(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer s.Close()

	sess, err := s.Sessions().Start("cursor", "log")
	require.NoError(t, err)

	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	j := &StoreJournal{Events: s.Events(), SessionID: sess.ID}
	require.NoError(t, j.Record(action.MoveCursor(10, 20), "POINT", at))
	require.NoError(t, j.Record(action.Click(), "PINCH_CLICK", at))

	j.Moves = true
	require.NoError(t, j.Record(action.MoveCursor(30, 40), "POINT", at))

	counts, err := s.Events().CountByKind(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"click": 1, "move_cursor": 1}, counts)
}

func TestApp_Close(t *testing.T) {
	src := &fakeSource{}
	a := newArrowApp(src, action.NewRecorder(1920, 1080), nil)
	require.NoError(t, a.Close())
	assert.True(t, src.closed)
}

func TestFPS(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Zero(t, FPS(time.Time{}, t1))
	assert.Zero(t, FPS(t1, t1))
	assert.InDelta(t, 20, FPS(t1, t1.Add(50*time.Millisecond)), 1e-9)
}

// countingVolume reports how often the loop reads the system volume.
type countingVolume struct {
	*action.Recorder
	reads int
}

func (c *countingVolume) Volume() (float64, error) {
	c.reads++
	return c.Recorder.Volume()
}

func TestApp_VolumeNotReadWithoutHand(t *testing.T) {
	frames := append(repeat(detector.HandObservation{}, 20), repeat(pose("11000"), 20)...)
	src := &fakeSource{frames: frames, err: errCamera}
	emitter := &countingVolume{Recorder: action.NewRecorder(1920, 1080)}
	a := New(Config{
		Source:  src,
		Machine: mode.NewVolumeMachine(mode.DefaultVolumeConfig(), emitter, zerolog.Nop()),
		Emitter: emitter,
		Now:     clock30(),
		Log:     zerolog.Nop(),
	})
	a.SetEnabled(false)

	require.ErrorIs(t, a.Run(context.Background()), ErrFrameRead)
	assert.Equal(t, 40, src.skipped)
	assert.Zero(t, emitter.reads, "empty and disabled frames never read the volume")
	require.NotNil(t, a.Status().Volume)
}
