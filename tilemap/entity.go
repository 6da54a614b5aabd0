package tilemap

import "fmt"

// Handle references a placed tile or a layer's grid. The low half is the
// arena slot, the high half the slot's generation when the handle was
// issued. Slot 0 is reserved, so the zero Handle means "no tile".
type Handle uint64

type (
	slotID     uint32
	generation uint32
)

func makeHandle(id slotID, gen generation) Handle {
	return Handle(gen)<<32 | Handle(id)
}

func (h Handle) split() (slotID, generation) {
	return slotID(h & 0xffffffff), generation(h >> 32)
}

func (h Handle) id() slotID {
	id, _ := h.split()
	return id
}

func (h Handle) generation() generation {
	_, gen := h.split()
	return gen
}

// String formats h as slot "v" generation, e.g. 3v2.
func (h Handle) String() string {
	id, gen := h.split()
	return fmt.Sprintf("%dv%d", id, gen)
}

// Valid reports whether h names an arena slot. It does not say whether the
// tile is still alive; use TilemapAccess.IsAlive for that.
func (h Handle) Valid() bool {
	return h.id() != 0
}
