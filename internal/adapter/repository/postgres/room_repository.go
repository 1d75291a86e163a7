package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/srgjo27/villa_booking/internal/core/domain"
)

type RoomRepository struct {
	db *sql.DB
}

func NewRoomRepository(db *sql.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) GetRoom(ctx context.Context, roomID uuid.UUID) (*domain.Room, error) {
	query := `
	SELECT id, name, price_per_night, price_with_meal, max_guests, accommodation
	FROM rooms
	WHERE id = $1
	`

	var room domain.Room
	var maxGuests sql.NullInt64

	err := r.db.QueryRowContext(ctx, query, roomID).Scan(
		&room.ID,
		&room.Name,
		&room.PricePerNight,
		&room.PriceWithMeal,
		&maxGuests,
		pq.Array(&room.Accommodation),
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRoomNotFound
		}

		return nil, err
	}

	if maxGuests.Valid {
		room.MaxGuests = int(maxGuests.Int64)
	}

	return &room, nil
}
