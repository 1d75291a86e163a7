package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/srgjo27/villa_booking/internal/core/domain"
)

// roomDocument mirrors the catalog's room documents. Rooms are keyed by
// their UUID string.
type roomDocument struct {
	ID            string   `bson:"_id"`
	Name          string   `bson:"name"`
	PricePerNight int64    `bson:"pricePerNight"`
	PriceWithMeal int64    `bson:"priceWithMeal"`
	MaxGuests     *int     `bson:"maxGuests,omitempty"`
	Accommodation []string `bson:"accommodation"`
}

func (d roomDocument) toDomain() (*domain.Room, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("room document has invalid id %q: %w", d.ID, err)
	}

	room := &domain.Room{
		ID:            id,
		Name:          d.Name,
		PricePerNight: d.PricePerNight,
		PriceWithMeal: d.PriceWithMeal,
		Accommodation: d.Accommodation,
	}
	if d.MaxGuests != nil {
		room.MaxGuests = *d.MaxGuests
	}

	return room, nil
}

type RoomCatalog struct {
	rooms *mongo.Collection
}

func NewRoomCatalog(db *mongo.Database) *RoomCatalog {
	return &RoomCatalog{rooms: db.Collection("rooms")}
}

func (c *RoomCatalog) GetRoom(ctx context.Context, roomID uuid.UUID) (*domain.Room, error) {
	var doc roomDocument
	err := c.rooms.FindOne(ctx, bson.M{"_id": roomID.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to load room %s: %w", roomID, err)
	}

	return doc.toDomain()
}
