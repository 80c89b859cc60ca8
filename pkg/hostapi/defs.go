// Package hostapi defines the contract between the racing module and the
// engine that loads it: the versioned capability table the engine exposes,
// the opaque handles it hands out, and the metadata the module reports back.
package hostapi

// ABIVersion is the capability table version this module was built against.
// The engine's table must report the same value or the module refuses to run.
const ABIVersion uint32 = 1

// ModelHandle identifies a model owned by the engine. The module never looks
// inside it; it only passes it back for removal. Zero means no model.
type ModelHandle uint64

// Valid reports whether the engine returned a usable model.
func (h ModelHandle) Valid() bool { return h != 0 }

// SceneHandle identifies a scene owned by the engine. Zero means no scene.
type SceneHandle uint64

// Valid reports whether the engine returned a usable scene.
func (h SceneHandle) Valid() bool { return h != 0 }

// Info is the metadata descriptor the engine reads before calling any other
// entry point.
type Info struct {
	ABIVersion  uint32
	GameID      string
	Name        string
	Version     string
	Author      string
	Description string
	Homepage    string
}

// Compatible reports whether a capability table of the given version can be
// used by a module described by i.
func (i Info) Compatible(version uint32) bool {
	return i.ABIVersion == version
}

// Logger is the engine's fire-and-forget log channel.
type Logger interface {
	Log(msg string)
	Warn(msg string)
	Error(msg string)
}

// Clock exposes engine timing.
type Clock interface {
	DeltaTime() float64
	TimeMillis() uint64
}

// Input is polled once per frame. "Down" is continuous state; pressed and
// released are edge-triggered for the current frame only.
type Input interface {
	IsKeyDown(Key) bool
	IsKeyPressed(Key) bool
	IsKeyReleased(Key) bool

	IsMouseDown(MouseButton) bool
	IsMousePressed(MouseButton) bool
	IsMouseReleased(MouseButton) bool

	MousePosition() (x, y float64)
	MouseDelta() (dx, dy float64)
}

// Camera lets the module drive the engine camera.
type Camera interface {
	SetCameraState(CameraState)
	CameraState() CameraState
	EnableGameCamera(enabled bool)
}

// Assets loads and releases engine-owned resources. Loaded handles belong to
// the module until it hands them back with RemoveModel/RemoveScene.
type Assets interface {
	LoadScene(path string) SceneHandle
	LoadModel(path string) ModelHandle
	RemoveModel(ModelHandle)
	RemoveScene(SceneHandle)
}

// Display covers per-frame presentation settings.
type Display interface {
	ClearColor(rgba [4]float64)
}

// Host is the full capability table handed to the module at init.
type Host interface {
	ABIVersion() uint32

	Logger
	Clock
	Input
	Camera
	Assets
	Display
}
