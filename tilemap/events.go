package tilemap

// TileModification is either TileAdded or TileRemoved.
type TileModification interface {
	isTileModification()
}

// TileAdded reports a placement. HasOld is set when the placement replaced
// an existing tile, whose handle is Old.
type TileAdded struct {
	Old    Handle
	HasOld bool
	New    Handle
	Props  TileProperties
}

// TileRemoved reports that Old was destroyed. Props is the record it held.
type TileRemoved struct {
	Old   Handle
	Props TileProperties
}

func (TileAdded) isTileModification()   {}
func (TileRemoved) isTileModification() {}

// TileUpdateEvent is published for every successful store mutation.
type TileUpdateEvent struct {
	Layer        Layer
	Pos          TilePos
	Modification TileModification
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []TileUpdateEvent
}

// Push adds an event.
func (q *EventQueue) Push(evt TileUpdateEvent) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []TileUpdateEvent {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Len returns the number of pending events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// EventFeed fans store mutations out to every subscribed reader. Each reader
// owns its own queue, so draining one does not affect the others.
type EventFeed struct {
	readers []*EventReader
}

// EventReader is one consumer's view of the feed.
type EventReader struct {
	feed  *EventFeed
	queue EventQueue
}

// Subscribe registers a new reader. It only sees events sent afterwards.
// A nil feed hands out a detached reader that never receives anything.
func (f *EventFeed) Subscribe() *EventReader {
	if f == nil {
		return &EventReader{}
	}
	r := &EventReader{feed: f}
	f.readers = append(f.readers, r)
	return r
}

// Send pushes evt to every reader.
func (f *EventFeed) Send(evt TileUpdateEvent) {
	if f == nil {
		return
	}
	for _, r := range f.readers {
		r.queue.Push(evt)
	}
}

// Readers returns the number of subscribed readers.
func (f *EventFeed) Readers() int {
	if f == nil {
		return 0
	}
	return len(f.readers)
}

// Read drains the events queued for this reader since the previous Read.
func (r *EventReader) Read() []TileUpdateEvent {
	if r == nil {
		return nil
	}
	return r.queue.Drain()
}

// Pending returns the number of events waiting to be read.
func (r *EventReader) Pending() int {
	if r == nil {
		return 0
	}
	return r.queue.Len()
}

// Unsubscribe detaches the reader and drops anything it had not read.
func (r *EventReader) Unsubscribe() {
	if r == nil || r.feed == nil {
		return
	}
	readers := r.feed.readers
	for i, other := range readers {
		if other == r {
			r.feed.readers = append(readers[:i], readers[i+1:]...)
			break
		}
	}
	r.feed = nil
	r.queue.Drain()
}
