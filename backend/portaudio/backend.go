// Package portaudio implements backend.Backend on top of PortAudio
// output streams, grounded on the teacher's own portaudio.OpenStream /
// StreamParameters usage in its audio engine's Start method and the
// original implementation's CpalBackend device/state management.
package portaudio

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	"audiocore/backend"
)

// Device describes an available output device, mirroring the teacher's
// own AudioDevice shape.
type Device struct {
	ID   int
	Name string
}

// paStream abstracts the subset of *portaudio.Stream this package uses,
// the same seam the teacher cuts for testability.
type paStream interface {
	Start() error
	Stop() error
	Close() error
	Write() error
}

// Backend drives a single PortAudio output stream from a renderer's
// ProcessFunc, filling and writing a buffer in a dedicated goroutine —
// the same blocking-write shape as the teacher's own playbackLoop,
// rather than PortAudio's reflection-based callback mode.
type Backend struct {
	outputDeviceID int // -1 selects the default device

	settings backend.Settings
	stream   paStream
	buf      []float32
	process  backend.ProcessFunc
	onRate   func(int)

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New returns a Backend that will use the default output device unless
// outputDeviceID is overridden via SetOutputDevice.
func New() *Backend {
	return &Backend{outputDeviceID: -1}
}

// SetOutputDevice selects a device by index as reported by ListDevices.
// Pass -1 to restore the default device. Only effective before Setup.
func (b *Backend) SetOutputDevice(id int) { b.outputDeviceID = id }

// ListDevices returns every PortAudio device exposing at least one
// output channel, grounded on the teacher's listDevices/ListOutputDevices.
func ListDevices() ([]Device, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	var out []Device
	for i, d := range devices {
		if d.MaxOutputChannels > 0 {
			out = append(out, Device{ID: i, Name: d.Name})
		}
	}
	return out, nil
}

// Setup initializes PortAudio and resolves the output device, returning
// the device's actual sample rate (which Setup does not attempt to
// override — the stream is opened at the device's native rate).
func (b *Backend) Setup(settings backend.Settings) (int, error) {
	if err := portaudio.Initialize(); err != nil {
		return 0, fmt.Errorf("portaudio: initialize: %w", err)
	}
	devices, err := portaudio.Devices()
	if err != nil {
		return 0, fmt.Errorf("portaudio: list devices: %w", err)
	}
	device, err := b.resolveDevice(devices)
	if err != nil {
		return 0, err
	}
	settings.SampleRate = int(device.DefaultSampleRate)
	b.settings = settings
	return settings.SampleRate, nil
}

func (b *Backend) resolveDevice(devices []*portaudio.DeviceInfo) (*portaudio.DeviceInfo, error) {
	if b.outputDeviceID >= 0 && b.outputDeviceID < len(devices) {
		return devices[b.outputDeviceID], nil
	}
	return portaudio.DefaultOutputDevice()
}

// Start opens the output stream bound to b.buf and launches the
// goroutine that fills and writes it until Stop signals stopCh,
// mirroring the teacher's own playbackLoop rather than PortAudio's
// reflection-based callback mode.
func (b *Backend) Start(process backend.ProcessFunc) error {
	devices, err := portaudio.Devices()
	if err != nil {
		return fmt.Errorf("portaudio: list devices: %w", err)
	}
	device, err := b.resolveDevice(devices)
	if err != nil {
		return err
	}

	b.process = process
	b.buf = make([]float32, b.settings.FramesPerBuffer*b.settings.NumChannels)

	params := portaudio.StreamParameters{
		Output: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: b.settings.NumChannels,
			Latency:  device.DefaultLowOutputLatency,
		},
		SampleRate:      float64(b.settings.SampleRate),
		FramesPerBuffer: b.settings.FramesPerBuffer,
	}
	stream, err := portaudio.OpenStream(params, b.buf)
	if err != nil {
		return fmt.Errorf("portaudio: open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("portaudio: start stream: %w", err)
	}
	b.stream = stream
	b.stopCh = make(chan struct{})

	b.wg.Add(1)
	go b.playbackLoop()
	return nil
}

// playbackLoop fills b.buf from process and blocks writing it to the
// stream until Stop closes stopCh. Sequence matters here: Stop must
// join this goroutine before closing the stream, or a Write can land
// on an already-closed stream.
func (b *Backend) playbackLoop() {
	defer b.wg.Done()
	for {
		select {
		case <-b.stopCh:
			return
		default:
		}
		b.process(b.buf, b.settings.NumChannels)
		if err := b.stream.Write(); err != nil {
			return
		}
	}
}

// Stop signals the playback goroutine, waits for it to return, then
// stops and closes the stream — in that order, so nothing writes to a
// stream already being torn down.
func (b *Backend) Stop() error {
	if b.stream == nil {
		return nil
	}
	close(b.stopCh)
	b.wg.Wait()

	if err := b.stream.Stop(); err != nil {
		return fmt.Errorf("portaudio: stop stream: %w", err)
	}
	if err := b.stream.Close(); err != nil {
		return fmt.Errorf("portaudio: close stream: %w", err)
	}
	b.stream = nil
	portaudio.Terminate()
	return nil
}

// SampleRate returns the sample rate the stream was opened at.
func (b *Backend) SampleRate() int { return b.settings.SampleRate }

// NumChannels returns the stream's channel count.
func (b *Backend) NumChannels() int { return b.settings.NumChannels }

// OnSampleRateChange registers fn, called if the engine ever reopens the
// stream at a new rate (e.g. after a device change).
func (b *Backend) OnSampleRateChange(fn func(int)) { b.onRate = fn }
