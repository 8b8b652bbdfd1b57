package redis

import (
	"context"
	"fmt"

	"github.com/dkeye/peerview/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Ledger keeps a sum and count per rated user.
// Key format: rating:<user_id> with fields sum and count.
type Ledger struct {
	client *redis.Client
}

func NewLedger(client *redis.Client) *Ledger {
	return &Ledger{client: client}
}

// Record adds one rating atomically and returns the new mean and count.
func (l *Ledger) Record(ctx context.Context, uid domain.UserID, roomID domain.RoomID, rating int) (float64, int, error) {
	key := ledgerKey(uid)
	var sum, count *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		sum = pipe.HIncrBy(ctx, key, "sum", int64(rating))
		count = pipe.HIncrBy(ctx, key, "count", 1)
		pipe.SAdd(ctx, roomsKey(uid), string(roomID))
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("record rating: %w", err)
	}
	mean, total := meanOf(sum.Val(), count.Val())
	return mean, total, nil
}

func meanOf(sum, count int64) (float64, int) {
	if count <= 0 {
		return 0, 0
	}
	return float64(sum) / float64(count), int(count)
}

func ledgerKey(uid domain.UserID) string {
	return fmt.Sprintf("rating:%s", uid)
}

func roomsKey(uid domain.UserID) string {
	return fmt.Sprintf("rating:%s:rooms", uid)
}
