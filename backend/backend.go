// Package backend connects a render callback to an audio device or, for
// tests, to a synthetic clock (spec §3: "Backend abstraction"; grounded
// on the original implementation's Backend trait and its MockBackend
// used by change_sample_rate.rs).
package backend

// ProcessFunc renders one device callback's worth of interleaved audio.
// Implementations of Backend call this on whatever schedule they drive
// (a real device callback, or synchronously in tests).
type ProcessFunc func(out []float32, numChannels int)

// Settings configures a Backend before Setup.
type Settings struct {
	SampleRate      int
	NumChannels     int
	FramesPerBuffer int
}

// DefaultSettings returns CD-quality stereo at a 512-frame buffer.
func DefaultSettings() Settings {
	return Settings{SampleRate: 44100, NumChannels: 2, FramesPerBuffer: 512}
}

// Backend is the device-facing half of the engine. Setup prepares the
// device without starting audio flowing; Start hands it the renderer's
// process function; Stop halts it. A Backend additionally exposes the
// sample rate it is actually running at, which may differ from what was
// requested (spec §6).
type Backend interface {
	Setup(settings Settings) (actualSampleRate int, err error)
	Start(process ProcessFunc) error
	Stop() error
	SampleRate() int
	NumChannels() int
	// OnSampleRateChange registers a callback invoked whenever the
	// backend's sample rate changes after Start, so the engine can
	// propagate it to the renderer (spec §6).
	OnSampleRateChange(fn func(newSampleRate int))
}

// MockBackend is a synchronous, device-free Backend for tests: Process
// drives exactly one callback using the registered process function,
// and SetSampleRate lets a test simulate a device switching rates
// mid-stream. Grounded on the original implementation's MockBackend used
// throughout change_sample_rate.rs.
type MockBackend struct {
	settings Settings
	process  ProcessFunc
	onRate   func(int)
	started  bool
}

// NewMockBackend returns an unstarted MockBackend.
func NewMockBackend(settings Settings) *MockBackend {
	return &MockBackend{settings: settings}
}

// Setup records settings as given, without checking them, and reports the
// requested sample rate back unchanged; a mock backend never renegotiates
// with hardware.
func (m *MockBackend) Setup(settings Settings) (int, error) {
	m.settings = settings
	return settings.SampleRate, nil
}

// Start records process for later Process() calls.
func (m *MockBackend) Start(process ProcessFunc) error {
	m.process = process
	m.started = true
	return nil
}

// Stop marks the backend as no longer running.
func (m *MockBackend) Stop() error {
	m.started = false
	return nil
}

// SampleRate returns the backend's current sample rate.
func (m *MockBackend) SampleRate() int { return m.settings.SampleRate }

// NumChannels returns the backend's channel count.
func (m *MockBackend) NumChannels() int { return m.settings.NumChannels }

// OnSampleRateChange registers fn to be called from SetSampleRate.
func (m *MockBackend) OnSampleRateChange(fn func(int)) { m.onRate = fn }

// SetSampleRate simulates a device sample rate change, notifying any
// registered callback, mirroring the original test helper's
// backend.set_sample_rate.
func (m *MockBackend) SetSampleRate(newSampleRate int) {
	m.settings.SampleRate = newSampleRate
	if m.onRate != nil {
		m.onRate(newSampleRate)
	}
}

// Process synchronously drives exactly one render callback of
// FramesPerBuffer frames, matching the original test helper's
// backend.process().
func (m *MockBackend) Process() []float32 {
	if !m.started || m.process == nil {
		return nil
	}
	out := make([]float32, m.settings.FramesPerBuffer*m.settings.NumChannels)
	m.process(out, m.settings.NumChannels)
	return out
}
