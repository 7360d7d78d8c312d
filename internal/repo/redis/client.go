package redis

import (
	"context"

	goredis "github.com/redis/go-redis/v9"

	"github.com/gamerverse/backend/internal/domain/apperrors"
)

func NewClient(addr, password string, db int) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func Ping(ctx context.Context, client *goredis.Client) error {
	if client == nil {
		return errClientNil()
	}
	if err := client.Ping(ctx).Err(); err != nil {
		return apperrors.Storage("redis ping "+client.Options().Addr, err)
	}
	return nil
}
