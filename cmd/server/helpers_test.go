package main

import (
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	redisRepo "github.com/iho/demobank/internal/adapter/repository/redis"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o600)
}

func subscribe(t *testing.T, mr *miniredis.Miniredis) *goredis.PubSub {
	t.Helper()

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sub := client.Subscribe(t.Context(), redisRepo.NotificationChannel)
	_, err := sub.Receive(t.Context())
	require.NoError(t, err)
	return sub
}
