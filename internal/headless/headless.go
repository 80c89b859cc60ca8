// Package headless is an in-process engine for running the racing module
// without a renderer: input is scripted, handles are bookkept, and every
// camera push and log line is captured for inspection.
package headless

import (
	"fmt"

	"github.com/refugestudios/racing-game/pkg/hostapi"
)

var _ hostapi.Host = (*Host)(nil)

// Level tags a captured log line with the channel it arrived on.
type Level string

const (
	LevelLog   Level = "log"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Line is one captured host log call.
type Line struct {
	Level Level
	Msg   string
}

// Host implements hostapi.Host in memory.
type Host struct {
	Version uint32

	// FailScenes and FailModels make the corresponding loads return a zero handle.
	FailScenes bool
	FailModels bool

	Delta  float64
	Millis uint64

	Lines []Line

	Camera       hostapi.CameraState
	CameraPushes int
	GameCamera   bool

	Background       [4]float64
	BackgroundPushes int

	keys       map[hostapi.Key]bool
	nextHandle uint64

	liveModels map[hostapi.ModelHandle]bool
	liveScenes map[hostapi.SceneHandle]bool

	ModelsLoaded  int
	ModelsRemoved int
	ScenesLoaded  int
	ScenesRemoved int
	// BadReleases counts removals of handles that were never loaded or
	// were already removed.
	BadReleases int
}

// New returns a host reporting the module's ABI version.
func New() *Host {
	return &Host{
		Version:    hostapi.ABIVersion,
		keys:       make(map[hostapi.Key]bool),
		liveModels: make(map[hostapi.ModelHandle]bool),
		liveScenes: make(map[hostapi.SceneHandle]bool),
	}
}

func (h *Host) ABIVersion() uint32 { return h.Version }

func (h *Host) Log(msg string)   { h.Lines = append(h.Lines, Line{LevelLog, msg}) }
func (h *Host) Warn(msg string)  { h.Lines = append(h.Lines, Line{LevelWarn, msg}) }
func (h *Host) Error(msg string) { h.Lines = append(h.Lines, Line{LevelError, msg}) }

// LinesAt returns the captured messages for one channel.
func (h *Host) LinesAt(level Level) []string {
	var out []string
	for _, l := range h.Lines {
		if l.Level == level {
			out = append(out, l.Msg)
		}
	}
	return out
}

func (h *Host) DeltaTime() float64 { return h.Delta }
func (h *Host) TimeMillis() uint64 { return h.Millis }

// Press holds keys down until Release.
func (h *Host) Press(keys ...hostapi.Key) {
	for _, k := range keys {
		h.keys[k] = true
	}
}

// Release lets go of keys. With no arguments every key is released.
func (h *Host) Release(keys ...hostapi.Key) {
	if len(keys) == 0 {
		h.keys = make(map[hostapi.Key]bool)
		return
	}
	for _, k := range keys {
		delete(h.keys, k)
	}
}

func (h *Host) IsKeyDown(k hostapi.Key) bool             { return h.keys[k] }
func (h *Host) IsKeyPressed(hostapi.Key) bool            { return false }
func (h *Host) IsKeyReleased(hostapi.Key) bool           { return false }
func (h *Host) IsMouseDown(hostapi.MouseButton) bool     { return false }
func (h *Host) IsMousePressed(hostapi.MouseButton) bool  { return false }
func (h *Host) IsMouseReleased(hostapi.MouseButton) bool { return false }
func (h *Host) MousePosition() (float64, float64)        { return 0, 0 }
func (h *Host) MouseDelta() (float64, float64)           { return 0, 0 }

func (h *Host) SetCameraState(s hostapi.CameraState) {
	h.Camera = s
	h.CameraPushes++
}

func (h *Host) CameraState() hostapi.CameraState { return h.Camera }

func (h *Host) EnableGameCamera(enabled bool) { h.GameCamera = enabled }

func (h *Host) LoadScene(string) hostapi.SceneHandle {
	if h.FailScenes {
		return 0
	}
	h.nextHandle++
	s := hostapi.SceneHandle(h.nextHandle)
	h.liveScenes[s] = true
	h.ScenesLoaded++
	return s
}

func (h *Host) LoadModel(string) hostapi.ModelHandle {
	if h.FailModels {
		return 0
	}
	h.nextHandle++
	m := hostapi.ModelHandle(h.nextHandle)
	h.liveModels[m] = true
	h.ModelsLoaded++
	return m
}

func (h *Host) RemoveModel(m hostapi.ModelHandle) {
	if !h.liveModels[m] {
		h.BadReleases++
		return
	}
	delete(h.liveModels, m)
	h.ModelsRemoved++
}

func (h *Host) RemoveScene(s hostapi.SceneHandle) {
	if !h.liveScenes[s] {
		h.BadReleases++
		return
	}
	delete(h.liveScenes, s)
	h.ScenesRemoved++
}

func (h *Host) ClearColor(rgba [4]float64) {
	h.Background = rgba
	h.BackgroundPushes++
}

// LiveModels is the number of models loaded and not yet removed.
func (h *Host) LiveModels() int { return len(h.liveModels) }

// LiveScenes is the number of scenes loaded and not yet removed.
func (h *Host) LiveScenes() int { return len(h.liveScenes) }

// Leaks describes any handle the module still holds, or returns nil.
func (h *Host) Leaks() error {
	if len(h.liveModels) == 0 && len(h.liveScenes) == 0 && h.BadReleases == 0 {
		return nil
	}
	return fmt.Errorf("%d models and %d scenes still held, %d bad releases",
		len(h.liveModels), len(h.liveScenes), h.BadReleases)
}
