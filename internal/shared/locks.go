package shared

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrRoomBusy indicates another checkout is in flight for the same room.
var ErrRoomBusy = errors.New("room checkout already in progress")

// RoomLockKey builds redis keys for room critical sections.
func RoomLockKey(roomNumber int) string {
	return fmt.Sprintf("room:%d:lock", roomNumber)
}

// RoomLocker serialises checkout commits per room so two terminals cannot
// double-credit a guest balance.
type RoomLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRoomLocker constructs a RoomLocker.
func NewRoomLocker(client *redis.Client, ttl time.Duration) *RoomLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RoomLocker{client: client, ttl: ttl}
}

// Acquire takes the room lock. The returned release func is safe to call
// even after the lock expired; it only deletes the key when the token still
// matches.
func (l *RoomLocker) Acquire(ctx context.Context, roomNumber int) (func(), error) {
	if l == nil || l.client == nil {
		return func() {}, nil
	}
	key := RoomLockKey(roomNumber)
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRoomBusy
	}
	release := func() {
		const unlock = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`
		_ = l.client.Eval(context.Background(), unlock, []string{key}, token).Err()
	}
	return release, nil
}
