package email

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSender_StoresPerRecipient(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR_TEST")
	if addr == "" {
		t.Skip("REDIS_ADDR_TEST not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	defer rdb.Close()
	ctx := context.Background()

	s := NewRedisSender(rdb)
	require.NoError(t, s.Send(ctx, []string{"sam@example.com", "ops@example.com"}, "Welcome", []byte(rawWelcome)))

	for _, to := range []string{"sam@example.com", "ops@example.com"} {
		key := MockEmailKey(to, "welcome_trade")
		raw, err := rdb.GetDel(ctx, key).Bytes()
		require.NoError(t, err)

		var got CapturedEmail
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, to, got.To)
		assert.Equal(t, "Welcome", got.Subject)
		assert.Equal(t, "welcome_trade", got.TemplateID)
		assert.Equal(t, "Hi Sam\r\n", got.Body)
	}
}
