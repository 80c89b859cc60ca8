package main

/*
#define RACING_GAME_BUILDING
#include <stdlib.h>
#include "game_api.h"

static void bridge_log(const engine_api_t* a, const char* m) { if (a->log) a->log(m); }
static void bridge_warn(const engine_api_t* a, const char* m) { if (a->warn) a->warn(m); }
static void bridge_error(const engine_api_t* a, const char* m) { if (a->error) a->error(m); }

static uint64_t bridge_time_ms(const engine_api_t* a) { return a->get_time_ms ? a->get_time_ms() : 0; }
static float bridge_delta_time(const engine_api_t* a) { return a->get_delta_time ? a->get_delta_time() : 0; }

static bool bridge_key_down(const engine_api_t* a, int k) { return a->is_key_down && a->is_key_down(k); }
static bool bridge_key_pressed(const engine_api_t* a, int k) { return a->is_key_pressed && a->is_key_pressed(k); }
static bool bridge_key_released(const engine_api_t* a, int k) { return a->is_key_released && a->is_key_released(k); }
static bool bridge_mouse_down(const engine_api_t* a, int b) { return a->is_mouse_down && a->is_mouse_down(b); }
static bool bridge_mouse_pressed(const engine_api_t* a, int b) { return a->is_mouse_pressed && a->is_mouse_pressed(b); }
static bool bridge_mouse_released(const engine_api_t* a, int b) { return a->is_mouse_released && a->is_mouse_released(b); }

static void bridge_mouse_position(const engine_api_t* a, float* x, float* y) {
	*x = 0; *y = 0;
	if (a->get_mouse_position) a->get_mouse_position(x, y);
}
static void bridge_mouse_delta(const engine_api_t* a, float* x, float* y) {
	*x = 0; *y = 0;
	if (a->get_mouse_delta) a->get_mouse_delta(x, y);
}

static void bridge_set_camera(const engine_api_t* a, const oasis_camera_state* s) { if (a->set_camera_state) a->set_camera_state(s); }
static void bridge_get_camera(const engine_api_t* a, oasis_camera_state* s) { if (a->get_camera_state) a->get_camera_state(s); }
static void bridge_enable_camera(const engine_api_t* a, bool on) { if (a->enable_game_camera) a->enable_game_camera(on); }

static void* bridge_load_scene(const engine_api_t* a, const char* p) { return a->load_scene ? a->load_scene(p) : NULL; }
static void* bridge_load_model(const engine_api_t* a, const char* p) { return a->load_model ? a->load_model(p) : NULL; }
static void bridge_remove_model(const engine_api_t* a, void* m) { if (a->remove_model) a->remove_model(m); }
static void bridge_remove_scene(const engine_api_t* a, void* s) { if (a->remove_scene) a->remove_scene(s); }

static void bridge_clear_color(const engine_api_t* a, float r, float g, float b, float al) {
	float c[4] = {r, g, b, al};
	if (a->clear_color) a->clear_color(c);
}
*/
import "C"

import (
	"unsafe"

	"github.com/refugestudios/racing-game/pkg/hostapi"
)

var _ hostapi.Host = (*engineHost)(nil)

// engineHost calls back into the engine's capability table. Missing function
// pointers behave as no-ops returning zero values.
type engineHost struct {
	api *C.engine_api_t
}

func newEngineHost(api *C.engine_api_t) *engineHost {
	return &engineHost{api: api}
}

func (h *engineHost) ABIVersion() uint32 { return uint32(h.api.abi_version) }

func (h *engineHost) Log(msg string)   { h.say(msg, func(m *C.char) { C.bridge_log(h.api, m) }) }
func (h *engineHost) Warn(msg string)  { h.say(msg, func(m *C.char) { C.bridge_warn(h.api, m) }) }
func (h *engineHost) Error(msg string) { h.say(msg, func(m *C.char) { C.bridge_error(h.api, m) }) }

func (h *engineHost) say(msg string, send func(*C.char)) {
	cs := C.CString(msg)
	defer C.free(unsafe.Pointer(cs))
	send(cs)
}

func (h *engineHost) DeltaTime() float64 { return float64(C.bridge_delta_time(h.api)) }
func (h *engineHost) TimeMillis() uint64 { return uint64(C.bridge_time_ms(h.api)) }

func (h *engineHost) IsKeyDown(k hostapi.Key) bool     { return bool(C.bridge_key_down(h.api, C.int(k))) }
func (h *engineHost) IsKeyPressed(k hostapi.Key) bool  { return bool(C.bridge_key_pressed(h.api, C.int(k))) }
func (h *engineHost) IsKeyReleased(k hostapi.Key) bool { return bool(C.bridge_key_released(h.api, C.int(k))) }

func (h *engineHost) IsMouseDown(b hostapi.MouseButton) bool {
	return bool(C.bridge_mouse_down(h.api, C.int(b)))
}

func (h *engineHost) IsMousePressed(b hostapi.MouseButton) bool {
	return bool(C.bridge_mouse_pressed(h.api, C.int(b)))
}

func (h *engineHost) IsMouseReleased(b hostapi.MouseButton) bool {
	return bool(C.bridge_mouse_released(h.api, C.int(b)))
}

func (h *engineHost) MousePosition() (float64, float64) {
	var x, y C.float
	C.bridge_mouse_position(h.api, &x, &y)
	return float64(x), float64(y)
}

func (h *engineHost) MouseDelta() (float64, float64) {
	var x, y C.float
	C.bridge_mouse_delta(h.api, &x, &y)
	return float64(x), float64(y)
}

func (h *engineHost) SetCameraState(s hostapi.CameraState) {
	cs := toCCamera(s)
	C.bridge_set_camera(h.api, &cs)
}

func (h *engineHost) CameraState() hostapi.CameraState {
	var cs C.oasis_camera_state
	C.bridge_get_camera(h.api, &cs)
	return fromCCamera(cs)
}

func (h *engineHost) EnableGameCamera(enabled bool) {
	C.bridge_enable_camera(h.api, C.bool(enabled))
}

func (h *engineHost) LoadScene(path string) hostapi.SceneHandle {
	cs := C.CString(path)
	defer C.free(unsafe.Pointer(cs))
	return hostapi.SceneHandle(uintptr(C.bridge_load_scene(h.api, cs)))
}

func (h *engineHost) LoadModel(path string) hostapi.ModelHandle {
	cs := C.CString(path)
	defer C.free(unsafe.Pointer(cs))
	return hostapi.ModelHandle(uintptr(C.bridge_load_model(h.api, cs)))
}

func (h *engineHost) RemoveModel(m hostapi.ModelHandle) {
	C.bridge_remove_model(h.api, handlePointer(uint64(m)))
}

func (h *engineHost) RemoveScene(s hostapi.SceneHandle) {
	C.bridge_remove_scene(h.api, handlePointer(uint64(s)))
}

func (h *engineHost) ClearColor(rgba [4]float64) {
	C.bridge_clear_color(h.api, C.float(rgba[0]), C.float(rgba[1]), C.float(rgba[2]), C.float(rgba[3]))
}

// handlePointer turns an engine handle back into the pointer it was made from.
// Handles always originate from C memory.
func handlePointer(h uint64) unsafe.Pointer {
	return unsafe.Pointer(uintptr(h))
}

func toCCamera(s hostapi.CameraState) C.oasis_camera_state {
	var cs C.oasis_camera_state
	for i := range 3 {
		cs.position[i] = C.float(s.Position[i])
		cs.rotation[i] = C.float(s.Rotation[i])
	}
	cs.fov_y = C.float(s.FovY)
	cs.near_plane = C.float(s.NearPlane)
	cs.far_plane = C.float(s.FarPlane)
	cs.follow_distance = C.float(s.FollowDistance)
	cs.follow_height = C.float(s.FollowHeight)
	cs.shake_strength = C.float(s.ShakeStrength)
	cs.mode = C.oasis_camera_mode(s.Mode)
	return cs
}

func fromCCamera(cs C.oasis_camera_state) hostapi.CameraState {
	var s hostapi.CameraState
	for i := range 3 {
		s.Position[i] = float64(cs.position[i])
		s.Rotation[i] = float64(cs.rotation[i])
	}
	s.FovY = float64(cs.fov_y)
	s.NearPlane = float64(cs.near_plane)
	s.FarPlane = float64(cs.far_plane)
	s.FollowDistance = float64(cs.follow_distance)
	s.FollowHeight = float64(cs.follow_height)
	s.ShakeStrength = float64(cs.shake_strength)
	s.Mode = hostapi.CameraMode(cs.mode)
	return s
}
