package main

/*
#define RACING_GAME_BUILDING
#include <stdlib.h>
#include "game_api.h"
*/
import "C"

import (
	"os"
	"path/filepath"
	"unsafe"

	"github.com/refugestudios/racing-game/internal/game"
	"github.com/refugestudios/racing-game/internal/handlers"
)

// file paths
var (
	// ModulePath is the absolute path to this library file.
	ModulePath string

	// ModuleFolder is the parent folder of ModulePath. The config file and
	// every relative path in it are resolved against it.
	ModuleFolder string
)

// The C ABI has no context parameter, so the loaded library owns exactly one
// runtime. Every export runs on the engine's main thread.
var (
	rt     *runtime
	mirror entityMirror
	info   *C.game_info_t
)

// init is run automatically when the module is loaded
func init() {
	ModulePath = modulePath()
	ModuleFolder = filepath.Dir(ModulePath)
	rt = newRuntime(ModuleFolder, os.Stderr)
}

//export game_get_info
func game_get_info() *C.game_info_t {
	if info != nil {
		return info
	}
	meta := game.ModuleInfo()
	info = (*C.game_info_t)(C.calloc(1, C.size_t(unsafe.Sizeof(C.game_info_t{}))))
	info.abi_version = C.uint32_t(meta.ABIVersion)
	info.game_id = C.CString(meta.GameID)
	info.name = C.CString(meta.Name)
	info.version = C.CString(meta.Version)
	info.author = C.CString(meta.Author)
	info.description = C.CString(meta.Description)
	info.homepage = C.CString(meta.Homepage)
	return info
}

//export game_init
func game_init(api *C.engine_api_t) {
	rt.resume()
	var err error
	if api == nil {
		err = rt.game.Init(nil)
	} else {
		err = rt.game.Init(newEngineHost(api))
	}
	if err != nil {
		rt.log.Error().Err(err).Msg("Module init failed")
	}
	mirror.sync(rt.game.Entities())
}

//export game_update
func game_update(dt C.float) {
	mirror.readBack(rt.game.Entities())
	rt.game.Update(float64(dt))
	mirror.sync(rt.game.Entities())
}

//export game_shutdown
func game_shutdown() {
	mirror.readBack(rt.game.Entities())
	rt.game.Shutdown()
	rt.suspend()
	mirror.free()
}

//export game_on_client_join
func game_on_client_join(clientID C.uint32_t) {
	sessionEvent(handlers.CommandJoin, uint64(clientID))
}

//export game_on_client_disconnect
func game_on_client_disconnect(clientID C.uint32_t) {
	sessionEvent(handlers.CommandDisconnect, uint64(clientID))
}

//export game_on_local_client_ready
func game_on_local_client_ready(clientID C.uint32_t) {
	sessionEvent(handlers.CommandReady, uint64(clientID))
}

//export game_get_entity_count
func game_get_entity_count() C.size_t {
	return mirror.count()
}

//export game_get_entities
func game_get_entities() *C.game_entity_t {
	return mirror.entities()
}

// sessionEvent applies host pose edits before routing the event. The event may
// add or remove entries, and the mirror is rewritten afterwards.
func sessionEvent(command string, clientID uint64) {
	mirror.readBack(rt.game.Entities())
	rt.sessionEvent(command, clientID)
	mirror.sync(rt.game.Entities())
}

func main() {}
