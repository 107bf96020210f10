package track

import "github.com/google/uuid"

// NewTrackID mints a fresh opaque sub-track identifier, used by the
// control side when requesting a new sub-track from the mixer.
func NewTrackID() TrackID { return uuid.New() }

// NewEffectID mints a fresh opaque effect slot identifier.
func NewEffectID() EffectID { return uuid.New() }
