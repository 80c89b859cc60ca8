// Package convert provides functions to convert between GORM models and core models
package convert

import (
	"encoding/json"

	"github.com/refugestudios/racing-game/internal/geo"
	"github.com/refugestudios/racing-game/internal/model"
	"github.com/refugestudios/racing-game/pkg/core"
	"gorm.io/datatypes"
)

// extraToJSON converts a free-form map to datatypes.JSON for DB storage.
func extraToJSON(extra map[string]any) datatypes.JSON {
	if len(extra) == 0 {
		return datatypes.JSON("{}")
	}
	data, err := json.Marshal(extra)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(data)
}

// CoreToSession converts a core.Session to a GORM model.Session.
// A trail shorter than two points is stored empty.
func CoreToSession(s core.Session) model.Session {
	out := model.Session{
		ID:          s.ID,
		GameID:      s.GameID,
		GameVersion: s.GameVersion,
		ScenePath:   s.ScenePath,
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		Frames:      s.Frames,
		LocalID:     s.LocalID,
	}
	if ls, err := geo.TrailLineString(s.Trail); err == nil {
		out.Trail = ls
		out.TrailLength = ls.Length()
	}
	return out
}

// CoreToSessionEvent converts a core.SessionEvent to a GORM model.SessionEvent.
func CoreToSessionEvent(e core.SessionEvent) model.SessionEvent {
	return model.SessionEvent{
		Time:        e.Time,
		SessionID:   e.SessionID,
		Frame:       e.Frame,
		Kind:        string(e.Kind),
		ClientID:    e.ClientID,
		Applied:     e.Applied,
		EntityCount: e.EntityCount,
		ExtraData:   extraToJSON(e.ExtraData),
	}
}

// CoreToDriveSample converts a core.DriveSample to a GORM model.DriveSample.
func CoreToDriveSample(s core.DriveSample) model.DriveSample {
	return model.DriveSample{
		Time:      s.Time,
		SessionID: s.SessionID,
		Frame:     s.Frame,
		EntityID:  s.EntityID,
		Position:  geo.GroundPoint(s.Position),
		Elevation: s.Position.Y,
		Yaw:       s.Yaw,
		Speed:     s.Speed,
		Roll:      s.Roll,
		Throttle:  s.Throttle,
		Brake:     s.Brake,
		Steer:     s.Steer,
	}
}

// SessionToCore converts a GORM model.Session back to a core.Session.
func SessionToCore(s model.Session) core.Session {
	out := core.Session{
		ID:          s.ID,
		GameID:      s.GameID,
		GameVersion: s.GameVersion,
		ScenePath:   s.ScenePath,
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		Frames:      s.Frames,
		LocalID:     s.LocalID,
	}
	if !s.Trail.IsEmpty() {
		out.Trail = geo.TrailPoints(s.Trail)
	}
	return out
}

// SessionEventToCore converts a GORM model.SessionEvent back to a core.SessionEvent.
func SessionEventToCore(e model.SessionEvent) core.SessionEvent {
	var extra map[string]any
	if len(e.ExtraData) > 0 {
		_ = json.Unmarshal(e.ExtraData, &extra)
	}
	return core.SessionEvent{
		ID:          e.ID,
		SessionID:   e.SessionID,
		Time:        e.Time,
		Frame:       e.Frame,
		Kind:        core.EventKind(e.Kind),
		ClientID:    e.ClientID,
		Applied:     e.Applied,
		EntityCount: e.EntityCount,
		ExtraData:   extra,
	}
}

// DriveSampleToCore converts a GORM model.DriveSample back to a core.DriveSample.
func DriveSampleToCore(s model.DriveSample) core.DriveSample {
	pos, ok := geo.PositionFromPoint(s.Position, s.Elevation)
	if !ok {
		pos = core.Position3D{Y: s.Elevation}
	}
	return core.DriveSample{
		ID:        s.ID,
		SessionID: s.SessionID,
		Time:      s.Time,
		Frame:     s.Frame,
		EntityID:  s.EntityID,
		Position:  pos,
		Yaw:       s.Yaw,
		Speed:     s.Speed,
		Roll:      s.Roll,
		Throttle:  s.Throttle,
		Brake:     s.Brake,
		Steer:     s.Steer,
	}
}
