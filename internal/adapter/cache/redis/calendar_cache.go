package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/srgjo27/villa_booking/internal/core/domain"
)

const globalCalendarKey = "calendar:all"

type CalendarCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCalendarCache(client *redis.Client, ttl time.Duration) *CalendarCache {
	return &CalendarCache{client: client, ttl: ttl}
}

func calendarKey(roomID uuid.UUID) string {
	if roomID == uuid.Nil {
		return globalCalendarKey
	}
	return fmt.Sprintf("calendar:room:%s", roomID)
}

func (c *CalendarCache) GetCalendar(ctx context.Context, roomID uuid.UUID) ([]domain.DateRange, bool, error) {
	data, err := c.client.Get(ctx, calendarKey(roomID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var ranges []domain.DateRange
	if err := json.Unmarshal(data, &ranges); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached calendar: %w", err)
	}

	return ranges, true, nil
}

// SetCalendar stores ranges until the earlier of maxAge and the cache TTL.
func (c *CalendarCache) SetCalendar(ctx context.Context, roomID uuid.UUID, ranges []domain.DateRange, maxAge time.Duration) error {
	data, err := json.Marshal(ranges)
	if err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}

	ttl := c.ttl
	if maxAge > 0 && (ttl <= 0 || maxAge < ttl) {
		ttl = maxAge
	}

	return c.client.Set(ctx, calendarKey(roomID), data, ttl).Err()
}

// Invalidate drops the room's calendar together with the site-wide one,
// which is derived from every room.
func (c *CalendarCache) Invalidate(ctx context.Context, roomID uuid.UUID) error {
	keys := []string{globalCalendarKey}
	if roomID != uuid.Nil {
		keys = []string{calendarKey(roomID), globalCalendarKey}
	}

	return c.client.Del(ctx, keys...).Err()
}
