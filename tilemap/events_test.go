package tilemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventFeedFanOut(t *testing.T) {
	a := newTestAccess(t)
	render := a.Events().Subscribe()
	persist := a.Events().Subscribe()
	require.Equal(t, 2, a.Events().Readers())

	h, _ := a.Replace(TilePos{X: 1, Y: 0}, TileProperties{ID: 3}, World)
	a.Remove(TilePos{X: 1, Y: 0}, World)

	first := render.Read()
	require.Len(t, first, 2)
	assert.IsType(t, TileAdded{}, first[0].Modification)
	assert.Equal(t, TileRemoved{Old: h, Props: TileProperties{ID: 3}}, first[1].Modification)
	assert.Empty(t, render.Read(), "events are delivered once")

	assert.Equal(t, 2, persist.Pending(), "readers drain independently")
	assert.Equal(t, first, persist.Read())
}

func TestEventFeedLateSubscriberAndUnsubscribe(t *testing.T) {
	a := newTestAccess(t)
	early := a.Events().Subscribe()
	a.Replace(TilePos{}, TileProperties{ID: 1}, World)

	late := a.Events().Subscribe()
	assert.Zero(t, late.Pending(), "no replay for new readers")

	early.Unsubscribe()
	assert.Zero(t, early.Pending())
	assert.Equal(t, 1, a.Events().Readers())

	a.Replace(TilePos{X: 1}, TileProperties{ID: 1}, World)
	assert.Zero(t, early.Pending())
	assert.Equal(t, 1, late.Pending())

	early.Unsubscribe()
	assert.Equal(t, 1, a.Events().Readers())
}

func TestEventQueue(t *testing.T) {
	var q EventQueue
	assert.Nil(t, q.Drain())
	q.Push(TileUpdateEvent{Pos: TilePos{X: 1}})
	q.Push(TileUpdateEvent{Pos: TilePos{X: 2}})
	out := q.Drain()
	require.Len(t, out, 2)
	assert.Equal(t, uint32(1), out[0].Pos.X)
	assert.Equal(t, uint32(2), out[1].Pos.X)
	assert.Zero(t, q.Len())

	var nilQueue *EventQueue
	nilQueue.Push(TileUpdateEvent{})
	assert.Nil(t, nilQueue.Drain())
}

func TestNilFeedSubscribe(t *testing.T) {
	var a *TilemapAccess
	r := a.Events().Subscribe()
	require.NotNil(t, r)
	assert.Empty(t, r.Read())
	assert.Zero(t, r.Pending())
	r.Unsubscribe()

	var feed *EventFeed
	feed.Send(TileUpdateEvent{Layer: World})
	assert.Zero(t, feed.Readers())
}
