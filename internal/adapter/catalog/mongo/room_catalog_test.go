package mongo

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestRoomDocument_Decode(t *testing.T) {
	id := uuid.New()

	raw, err := bson.Marshal(bson.M{
		"_id":           id.String(),
		"name":          "Lake View",
		"pricePerNight": int64(1000),
		"priceWithMeal": int64(1400),
		"accommodation": bson.A{"2 Adults", "1 Child"},
	})
	assert.NoError(t, err)

	var doc roomDocument
	assert.NoError(t, bson.Unmarshal(raw, &doc))

	room, err := doc.toDomain()
	assert.NoError(t, err)
	assert.Equal(t, id, room.ID)
	assert.Equal(t, int64(1400), room.PriceWithMeal)
	assert.Equal(t, 0, room.MaxGuests)
	assert.Equal(t, []string{"2 Adults", "1 Child"}, room.Accommodation)
}

func TestRoomDocument_MaxGuestsAndBadID(t *testing.T) {
	four := 4
	room, err := roomDocument{ID: uuid.NewString(), MaxGuests: &four}.toDomain()
	assert.NoError(t, err)
	assert.Equal(t, 4, room.MaxGuests)

	_, err = roomDocument{ID: "villa-7"}.toDomain()
	assert.Error(t, err)
}
