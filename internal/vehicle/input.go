package vehicle

import "github.com/refugestudios/racing-game/pkg/hostapi"

// Intent is one frame of driver input. Throttle and Brake are 0 or 1, Steer
// is -1, 0 or 1 (positive turns left). Conflicting inputs are not resolved;
// they simply sum in the integrator.
type Intent struct {
	Throttle float64
	Brake    float64
	Steer    float64
}

// Bindings maps driving actions to engine keys.
type Bindings struct {
	Throttle hostapi.Key
	Brake    hostapi.Key
	Left     hostapi.Key
	Right    hostapi.Key
}

// DefaultBindings is WASD.
func DefaultBindings() Bindings {
	return Bindings{
		Throttle: hostapi.KeyW,
		Brake:    hostapi.KeyS,
		Left:     hostapi.KeyA,
		Right:    hostapi.KeyD,
	}
}

// ReadIntent polls continuous key state. Edge-triggered pressed/released
// queries are ignored.
func ReadIntent(in hostapi.Input, b Bindings) Intent {
	var intent Intent
	if in.IsKeyDown(b.Throttle) {
		intent.Throttle = 1
	}
	if in.IsKeyDown(b.Brake) {
		intent.Brake = 1
	}
	if in.IsKeyDown(b.Right) {
		intent.Steer -= 1
	}
	if in.IsKeyDown(b.Left) {
		intent.Steer += 1
	}
	return intent
}
