package service

import (
	"context"
	"sync"
)

// RoomLocker serializes hole lifecycle operations per room.  Lock blocks
// until the room is free or ctx ends and returns the function that releases
// it.
type RoomLocker interface {
	Lock(ctx context.Context, roomID int64) (unlock func(), err error)
}

// LocalLocker is an in-process RoomLocker.  Entries are reference counted and
// dropped once nobody holds or waits for the room.
type LocalLocker struct {
	mu    sync.Mutex
	rooms map[int64]*roomSlot
}

type roomSlot struct {
	sem  chan struct{}
	refs int
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{rooms: make(map[int64]*roomSlot)}
}

func (l *LocalLocker) Lock(ctx context.Context, roomID int64) (func(), error) {
	l.mu.Lock()
	slot, ok := l.rooms[roomID]
	if !ok {
		slot = &roomSlot{sem: make(chan struct{}, 1)}
		l.rooms[roomID] = slot
	}
	slot.refs++
	l.mu.Unlock()

	select {
	case slot.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(roomID, slot)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-slot.sem
			l.release(roomID, slot)
		})
	}, nil
}

func (l *LocalLocker) release(roomID int64, slot *roomSlot) {
	l.mu.Lock()
	slot.refs--
	if slot.refs == 0 {
		delete(l.rooms, roomID)
	}
	l.mu.Unlock()
}

// held reports how many rooms currently have holders or waiters.
func (l *LocalLocker) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.rooms)
}
