package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/srgjo27/villa_booking/internal/core/domain"
)

// RoomCatalog serves a fixed set of rooms, typically loaded from config.
type RoomCatalog struct {
	mu    sync.RWMutex
	rooms map[uuid.UUID]domain.Room
}

func NewRoomCatalog(rooms ...domain.Room) *RoomCatalog {
	c := &RoomCatalog{rooms: make(map[uuid.UUID]domain.Room, len(rooms))}
	for _, room := range rooms {
		c.rooms[room.ID] = room
	}
	return c
}

func (c *RoomCatalog) Put(room domain.Room) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rooms[room.ID] = room
}

func (c *RoomCatalog) GetRoom(ctx context.Context, roomID uuid.UUID) (*domain.Room, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	room, ok := c.rooms[roomID]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return &room, nil
}
