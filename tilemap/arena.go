package tilemap

// arena owns every handle issued by a store, the tile records attached to
// them, and any observer attachments.
type arena struct {
	gen     []generation
	alive   []bool
	free    []slotID
	records sparseSet

	attachments map[string]*sparseSet
}

func (a *arena) spawn(record *TileProperties) Handle {
	var id slotID
	if n := len(a.free); n > 0 {
		id = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.gen = append(a.gen, 0)
		a.alive = append(a.alive, false)
		id = slotID(len(a.gen))
	}
	a.alive[id-1] = true
	if record != nil {
		a.records.set(id, *record)
	}
	return makeHandle(id, a.gen[id-1])
}

func (a *arena) isAlive(h Handle) bool {
	if a == nil || !h.Valid() || int(h.id()) > len(a.gen) {
		return false
	}
	idx := h.id() - 1
	return a.alive[idx] && a.gen[idx] == h.generation()
}

// despawn destroys h together with its record and attachments. Stale
// handles are ignored.
func (a *arena) despawn(h Handle) bool {
	if !a.isAlive(h) {
		return false
	}
	id := h.id()
	a.records.remove(id)
	for _, set := range a.attachments {
		set.remove(id)
	}
	a.alive[id-1] = false
	a.gen[id-1]++
	a.free = append(a.free, id)
	return true
}

func (a *arena) record(h Handle) (TileProperties, bool) {
	if !a.isAlive(h) {
		return TileProperties{}, false
	}
	v, ok := a.records.get(h.id())
	if !ok {
		return TileProperties{}, false
	}
	return v.(TileProperties), true
}

func (a *arena) attach(h Handle, key string, v any) bool {
	if !a.isAlive(h) {
		return false
	}
	if a.attachments == nil {
		a.attachments = make(map[string]*sparseSet)
	}
	set, ok := a.attachments[key]
	if !ok {
		set = &sparseSet{}
		a.attachments[key] = set
	}
	set.set(h.id(), v)
	return true
}

func (a *arena) attachment(h Handle, key string) (any, bool) {
	if !a.isAlive(h) {
		return nil, false
	}
	return a.attachments[key].get(h.id())
}

func (a *arena) detach(h Handle, key string) bool {
	if !a.isAlive(h) {
		return false
	}
	return a.attachments[key].remove(h.id())
}

func (a *arena) live() int {
	n := 0
	for _, ok := range a.alive {
		if ok {
			n++
		}
	}
	return n
}
