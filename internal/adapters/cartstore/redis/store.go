// Package redis guarda los carritos como hashes de Redis (un campo por
// producto) con expiración renovada en cada escritura.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/phenrril/junimo/internal/domain"
)

const defaultPrefix = "junimo:cart:"

type Store struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
}

type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// New conecta y verifica con PING.
func New(ctx context.Context, o Options) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{Addr: o.Addr, Password: o.Password, DB: o.DB})
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("conectar a Redis: %w", err)
	}
	return NewWithClient(client, "", o.TTL), nil
}

func NewWithClient(client *goredis.Client, prefix string, ttl time.Duration) *Store {
	if prefix == "" {
		prefix = defaultPrefix
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Store{client: client, prefix: prefix, ttl: ttl}
}

func (s *Store) Close() error { return s.client.Close() }

func (s *Store) key(cartID string) string { return s.prefix + cartID }

func (s *Store) Items(ctx context.Context, cartID string) ([]domain.CartItem, error) {
	m, err := s.client.HGetAll(ctx, s.key(cartID)).Result()
	if err != nil {
		return nil, err
	}
	items := make([]domain.CartItem, 0, len(m))
	for codigo, raw := range m {
		var it domain.CartItem
		if err := json.Unmarshal([]byte(raw), &it); err != nil {
			continue
		}
		it.CartID = cartID
		it.Codigo = codigo
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Codigo < items[j].Codigo })
	return items, nil
}

func (s *Store) Put(ctx context.Context, item domain.CartItem) error {
	item.UpdatedAt = time.Now()
	raw, err := json.Marshal(item)
	if err != nil {
		return err
	}
	k := s.key(item.CartID)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, k, item.Codigo, raw)
	pipe.Expire(ctx, k, s.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) Remove(ctx context.Context, cartID, codigo string) error {
	return s.client.HDel(ctx, s.key(cartID), codigo).Err()
}

func (s *Store) Replace(ctx context.Context, cartID string, items []domain.CartItem) error {
	k := s.key(cartID)
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, k)
	if len(items) > 0 {
		now := time.Now()
		vals := make([]any, 0, len(items)*2)
		for _, it := range items {
			it.CartID = cartID
			it.UpdatedAt = now
			raw, err := json.Marshal(it)
			if err != nil {
				return err
			}
			vals = append(vals, it.Codigo, raw)
		}
		pipe.HSet(ctx, k, vals...)
		pipe.Expire(ctx, k, s.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) Clear(ctx context.Context, cartID string) error {
	return s.client.Del(ctx, s.key(cartID)).Err()
}
