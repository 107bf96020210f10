package engine

import (
	"audiocore/backend/portaudio"
)

// NewPortAudioManager returns a Manager wired to a real PortAudio output
// device, with device enumeration delegated to backend/portaudio.
func NewPortAudioManager() *Manager {
	be := portaudio.New()
	m := NewManager(be)
	m.listDevices = portaudio.ListDevices
	m.selectDevice = be.SetOutputDevice
	return m
}

// ListOutputDevices enumerates available output devices. Only meaningful
// on a Manager built with NewPortAudioManager; with any other backend it
// returns a nil list and a nil error.
func (m *Manager) ListOutputDevices() ([]portaudio.Device, error) {
	m.mu.Lock()
	list := m.listDevices
	m.mu.Unlock()
	if list == nil {
		return nil, nil
	}
	return list()
}

// SetOutputDevice selects an output device by index, as reported by
// ListOutputDevices. Only effective before Start, and only meaningful on
// a Manager built with NewPortAudioManager.
func (m *Manager) SetOutputDevice(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.selectDevice != nil {
		m.selectDevice(id)
	}
}
