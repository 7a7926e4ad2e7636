package input

// Orientation is an instantaneous wrist tilt sample in degrees.
// Roll is rotation around the long axis of the forearm (left-right tilt),
// pitch is forward-backward tilt. Values are not range-checked here; noisy
// sensors may report beyond ±90 and consumers must cope.
type Orientation struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
}

// GestureKind identifies a gesture event. The zero value means no gesture
// occurred, which is a valid reading distinct from an error.
type GestureKind int

const (
	GestureNone GestureKind = iota
	GestureTap
)

// String returns the gesture name.
func (k GestureKind) String() string {
	switch k {
	case GestureTap:
		return "tap"
	default:
		return "none"
	}
}

// Gesture is a single gesture event. Debounce timing uses the consumer's
// clock at delivery, not the device clock, so no timestamp travels with it.
type Gesture struct {
	Kind GestureKind `json:"kind"`
}
