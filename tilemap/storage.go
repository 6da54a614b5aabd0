package tilemap

// TileStorage is the dense cell array of one layer. Each cell holds at most
// one handle; the zero Handle marks an empty cell.
type TileStorage struct {
	size     TilemapSize
	cells    []Handle
	occupied int
}

func newTileStorage(size TilemapSize) *TileStorage {
	return &TileStorage{size: size, cells: make([]Handle, size.Count())}
}

// Size returns the grid dimensions.
func (s *TileStorage) Size() TilemapSize {
	if s == nil {
		return TilemapSize{}
	}
	return s.size
}

// Get returns the handle at pos, if any.
func (s *TileStorage) Get(pos TilePos) (Handle, bool) {
	if s == nil || !s.size.Contains(pos) {
		return 0, false
	}
	h := s.cells[s.size.index(pos)]
	return h, h.Valid()
}

// Len returns the number of occupied cells.
func (s *TileStorage) Len() int {
	if s == nil {
		return 0
	}
	return s.occupied
}

// Each calls fn for every occupied cell in row-major order. Returning false
// stops the walk.
func (s *TileStorage) Each(fn func(pos TilePos, h Handle) bool) {
	if s == nil {
		return
	}
	for idx, h := range s.cells {
		if !h.Valid() {
			continue
		}
		if !fn(s.size.pos(idx), h) {
			return
		}
	}
}

func (s *TileStorage) set(pos TilePos, h Handle) {
	idx := s.size.index(pos)
	if !s.cells[idx].Valid() {
		s.occupied++
	}
	s.cells[idx] = h
}

func (s *TileStorage) remove(pos TilePos) {
	idx := s.size.index(pos)
	if s.cells[idx].Valid() {
		s.occupied--
	}
	s.cells[idx] = 0
}
