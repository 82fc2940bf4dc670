package handstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-redis/redis/v8"

	"github.com/lox/handrecorder/internal/game"
)

const (
	handKeyPrefix = "handrec:hand:"
	handIndexKey  = "handrec:hands"
)

// Redis stores each hand under its own key and keeps a sorted set of ids
// scored by start time for listing.
type Redis struct {
	rdclient *redis.Client
}

// NewRedis connects to addr, given as "host:port", "host:port/db" or a
// redis:// URL, and pings the server.
func NewRedis(ctx context.Context, addr string) (*Redis, error) {
	opts, err := redisOptions(addr)
	if err != nil {
		return nil, err
	}
	rdclient := redis.NewClient(opts)
	if err := rdclient.Ping(ctx).Err(); err != nil {
		rdclient.Close()
		return nil, fmt.Errorf("handstore: redis %s: %w", opts.Addr, err)
	}
	return &Redis{rdclient: rdclient}, nil
}

func redisOptions(addr string) (*redis.Options, error) {
	if strings.HasPrefix(addr, "redis://") {
		return redis.ParseURL(addr)
	}
	host, db, found := strings.Cut(addr, "/")
	if host == "" {
		return nil, fmt.Errorf("handstore: redis address is empty")
	}
	opts := &redis.Options{Addr: host}
	if found {
		n, err := strconv.Atoi(db)
		if err != nil {
			return nil, fmt.Errorf("handstore: invalid redis db %q: %w", db, err)
		}
		opts.DB = n
	}
	return opts, nil
}

func (r *Redis) Save(ctx context.Context, hand *game.Hand) error {
	if hand == nil {
		return fmt.Errorf("handstore: hand is nil")
	}
	if err := validID(hand.ID); err != nil {
		return err
	}
	data, err := Marshal(hand)
	if err != nil {
		return err
	}

	_, err = r.rdclient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, handKeyPrefix+hand.ID, data, 0)
		pipe.ZAdd(ctx, handIndexKey, &redis.Z{
			Score:  float64(hand.StartedAt.UnixMilli()),
			Member: hand.ID,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("handstore: save %s: %w", hand.ID, err)
	}
	return nil
}

func (r *Redis) Get(ctx context.Context, id string) (*game.Hand, error) {
	data, err := r.rdclient.Get(ctx, handKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	} else if err != nil {
		return nil, fmt.Errorf("handstore: get %s: %w", id, err)
	}
	return Unmarshal(data)
}

func (r *Redis) List(ctx context.Context) ([]*game.Hand, error) {
	ids, err := r.rdclient.ZRange(ctx, handIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("handstore: list: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = handKeyPrefix + id
	}
	values, err := r.rdclient.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("handstore: list: %w", err)
	}

	hands := make([]*game.Hand, 0, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			// indexed but the record is gone
			continue
		}
		h, err := Unmarshal([]byte(s))
		if err != nil {
			return nil, fmt.Errorf("handstore: hand %s: %w", ids[i], err)
		}
		hands = append(hands, h)
	}
	sortHands(hands)
	return hands, nil
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.rdclient.Close()
}
