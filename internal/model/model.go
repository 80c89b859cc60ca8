package model

import (
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []any{
	&Session{},
	&SessionEvent{},
	&DriveSample{},
}

// Session is one Init..Shutdown run of the module.
type Session struct {
	ID          uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	CreatedAt   time.Time `json:"createdAt"`
	GameID      string    `json:"gameId" gorm:"size:64"`
	GameVersion string    `json:"gameVersion" gorm:"size:32"`
	ScenePath   string    `json:"scenePath" gorm:"size:255"`
	StartTime   time.Time `json:"startTime" gorm:"index:idx_session_start"`
	EndTime     time.Time `json:"endTime"`
	Frames      uint      `json:"frames" gorm:"default:0"`
	LocalID     *uint64   `json:"localId"`

	Trail       geom.LineString `json:"-"`           // ground-plane path of the local car, (x, z) per vertex
	TrailLength float64         `json:"trailLength"` // track units
}

func (*Session) TableName() string {
	return "sessions"
}

// SessionEvent records a local-ready, join or disconnect notification.
// Rejected notifications are kept with Applied false.
type SessionEvent struct {
	ID          uint           `json:"id" gorm:"primarykey;autoIncrement;"`
	Time        time.Time      `json:"time"`
	SessionID   uint           `json:"sessionId" gorm:"index:idx_sessionevent_session_id"`
	Session     Session        `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`
	Frame       uint           `json:"frame" gorm:"index:idx_sessionevent_frame"`
	Kind        string         `json:"kind" gorm:"size:32"`
	ClientID    uint64         `json:"clientId"`
	Applied     bool           `json:"applied" gorm:"default:false"`
	EntityCount int            `json:"entityCount"`
	ExtraData   datatypes.JSON `json:"extraData"` // client state after the event
}

func (*SessionEvent) TableName() string {
	return "session_events"
}

// DriveSample is a periodic snapshot of the locally driven car.
type DriveSample struct {
	ID        uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	Time      time.Time `json:"time"`
	SessionID uint      `json:"sessionId" gorm:"index:idx_drivesample_session_id"`
	Session   Session   `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`
	Frame     uint      `json:"frame" gorm:"index:idx_drivesample_frame"`
	EntityID  uint64    `json:"entityId"`

	Position  geom.Point `json:"position"`  // ground plane (x, z) as 2D point
	Elevation float64    `json:"elevation"` // y coordinate
	Yaw       float64    `json:"yaw"`
	Speed     float64    `json:"speed"`
	Roll      float64    `json:"roll"`
	Throttle  float64    `json:"throttle"`
	Brake     float64    `json:"brake"`
	Steer     float64    `json:"steer"`
}

func (*DriveSample) TableName() string {
	return "drive_samples"
}
