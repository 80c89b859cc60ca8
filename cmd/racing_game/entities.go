package main

/*
#include <stdlib.h>
#include "game_api.h"
*/
import "C"

import (
	"unsafe"

	"github.com/refugestudios/racing-game/internal/entity"
)

// pose is what the mirror last wrote for one entity, kept to tell host edits
// apart from float32 rounding.
type pose struct {
	x, y, z, yaw C.float
}

// entityMirror keeps a C copy of the entity list for game_get_entities. The
// host may edit position and rotation[1] in place between calls; those edits
// are carried back into the registry before the next update.
type entityMirror struct {
	data    *C.game_entity_t
	cap     int
	n       int
	written []pose

	// realloc defaults to the C allocator.
	realloc func(p unsafe.Pointer, size uintptr) unsafe.Pointer
}

func cRealloc(p unsafe.Pointer, size uintptr) unsafe.Pointer {
	return C.realloc(p, C.size_t(size))
}

func (m *entityMirror) slice() []C.game_entity_t {
	if m.data == nil {
		return nil
	}
	return unsafe.Slice(m.data, m.cap)
}

// sync rewrites the mirror from list, growing the C array when needed. If
// the array cannot grow the host sees a truncated list until the next sync.
func (m *entityMirror) sync(list []entity.Entity) {
	if len(list) > m.cap {
		realloc := m.realloc
		if realloc == nil {
			realloc = cRealloc
		}
		size := uintptr(len(list)) * unsafe.Sizeof(C.game_entity_t{})
		if p := realloc(unsafe.Pointer(m.data), size); p != nil {
			m.data = (*C.game_entity_t)(p)
			m.cap = len(list)
		} else {
			list = list[:m.cap]
		}
	}
	m.n = len(list)
	m.written = m.written[:0]

	out := m.slice()
	for i, e := range list {
		c := &out[i]
		c.id = C.uint64_t(e.ID)
		c.model = handlePointer(uint64(e.Model))
		c.position[0] = C.float(e.Position[0])
		c.position[1] = C.float(e.Position[1])
		c.position[2] = C.float(e.Position[2])
		c.rotation[0] = 0
		c.rotation[1] = C.float(e.Yaw)
		c.rotation[2] = 0
		c.scale = C.float(e.Scale)
		c.flags = C.uint32_t(e.Flags)
		m.written = append(m.written, pose{c.position[0], c.position[1], c.position[2], c.rotation[1]})
	}
}

// readBack applies host edits to list. Entries whose id no longer lines up
// are skipped.
func (m *entityMirror) readBack(list []entity.Entity) {
	in := m.slice()
	for i := range min(m.n, len(list)) {
		c := &in[i]
		if uint64(c.id) != list[i].ID {
			continue
		}
		w := m.written[i]
		if c.position[0] != w.x || c.position[1] != w.y || c.position[2] != w.z {
			list[i].Position[0] = float64(c.position[0])
			list[i].Position[1] = float64(c.position[1])
			list[i].Position[2] = float64(c.position[2])
		}
		if c.rotation[1] != w.yaw {
			list[i].Yaw = float64(c.rotation[1])
		}
	}
}

func (m *entityMirror) count() C.size_t {
	return C.size_t(m.n)
}

func (m *entityMirror) entities() *C.game_entity_t {
	if m.n == 0 {
		return nil
	}
	return m.data
}

func (m *entityMirror) free() {
	C.free(unsafe.Pointer(m.data))
	m.data = nil
	m.cap = 0
	m.n = 0
	m.written = nil
}
