package vehicle

// reverseFraction caps reverse speed at this share of MaxSpeed.
const reverseFraction = 0.4

// Tuning holds the driving constants. Forces are in speed units per second.
type Tuning struct {
	EngineForce float64 `json:"engineForce" mapstructure:"engineForce"`
	BrakeForce  float64 `json:"brakeForce" mapstructure:"brakeForce"`
	MaxSpeed    float64 `json:"maxSpeed" mapstructure:"maxSpeed"`
	Drag        float64 `json:"drag" mapstructure:"drag"`
	SteerRate   float64 `json:"steerRate" mapstructure:"steerRate"`
	MaxCamRoll  float64 `json:"maxCamRoll" mapstructure:"maxCamRoll"` // radians, ~14 degrees by default
	RollDamp    float64 `json:"rollDamp" mapstructure:"rollDamp"`
}

// DefaultTuning returns the stock racing demo handling.
func DefaultTuning() Tuning {
	return Tuning{
		EngineForce: 0.5,
		BrakeForce:  1.0,
		MaxSpeed:    1.0,
		Drag:        2.0,
		SteerRate:   22.0,
		MaxCamRoll:  0.25,
		RollDamp:    4.0,
	}
}

// MinSpeed is the reverse speed limit.
func (t Tuning) MinSpeed() float64 {
	return -t.MaxSpeed * reverseFraction
}
