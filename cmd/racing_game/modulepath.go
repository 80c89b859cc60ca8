package main

/*
#cgo windows LDFLAGS: -lpsapi
#cgo linux LDFLAGS: -ldl

#ifdef _WIN32
#define WIN32_LEAN_AND_MEAN
#include <windows.h>
#include <libloaderapi.h>
#include <stdlib.h>

static char* module_path(void) {
	HMODULE hModule = NULL;
	if (!GetModuleHandleExA(GET_MODULE_HANDLE_EX_FLAG_FROM_ADDRESS |
	                        GET_MODULE_HANDLE_EX_FLAG_UNCHANGED_REFCOUNT,
	                        (LPCSTR)module_path,
	                        &hModule)) {
		return NULL;
	}

	DWORD size = MAX_PATH;
	char* buffer = NULL;
	while (1) {
		char* grown = (char*)realloc(buffer, size);
		if (!grown) {
			free(buffer);
			return NULL;
		}
		buffer = grown;
		DWORD result = GetModuleFileNameA(hModule, buffer, size);
		if (result == 0) {
			free(buffer);
			return NULL;
		} else if (result < size) {
			return buffer;
		}
		size *= 2;
	}
}

#else

#define _GNU_SOURCE
#include <dlfcn.h>
#include <stdlib.h>
#include <string.h>

static char* module_path(void) {
	Dl_info info;
	if (dladdr((void*)module_path, &info) == 0 || info.dli_fname == NULL) {
		return NULL;
	}
	return strdup(info.dli_fname);
}

#endif
*/
import "C"

import (
	"os"
	"path/filepath"
	"unsafe"
)

// modulePath returns the absolute path of the shared library this runtime
// was loaded from, or the executable when that cannot be determined.
func modulePath() string {
	p := C.module_path()
	if p != nil {
		defer C.free(unsafe.Pointer(p))
		if abs, err := filepath.Abs(C.GoString(p)); err == nil {
			return abs
		}
	}
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return exe
}
