package game

import (
	"errors"
	"fmt"

	"github.com/refugestudios/racing-game/internal/config"
	"github.com/refugestudios/racing-game/pkg/hostapi"
)

// OptionsFromConfig builds options from the loaded configuration. Unknown key
// names keep their default binding and are reported in the returned error;
// the options are usable either way.
func OptionsFromConfig() (Options, error) {
	opts := DefaultOptions()
	var errs []error

	if p := config.GetString("assets.scene"); p != "" {
		opts.ScenePath = p
	}
	if err := config.UnmarshalKey("vehicle", &opts.Tuning); err != nil {
		errs = append(errs, err)
	}
	if err := config.UnmarshalKey("camera", &opts.Camera); err != nil {
		errs = append(errs, err)
	}
	if err := config.UnmarshalKey("spawn", &opts.Spawn); err != nil {
		errs = append(errs, err)
	}
	if v := config.GetFloat64("telemetry.logInterval"); v > 0 {
		opts.LogInterval = v
	}

	bind := func(key string, dst *hostapi.Key) {
		name := config.GetString(key)
		if name == "" {
			return
		}
		k, ok := hostapi.ParseKey(name)
		if !ok {
			errs = append(errs, fmt.Errorf("%s: unknown key %q", key, name))
			return
		}
		*dst = k
	}
	bind("input.throttle", &opts.Bindings.Throttle)
	bind("input.brake", &opts.Bindings.Brake)
	bind("input.left", &opts.Bindings.Left)
	bind("input.right", &opts.Bindings.Right)

	return opts, errors.Join(errs...)
}
