package redis

import (
	"context"
	"sort"
	"strconv"
	"testing"
	"time"

	"formbackend/internal/app/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	cfg := config.RedisConfig{
		Host:        mr.Host(),
		DialTimeout: time.Second,
		ReadTimeout: time.Second,
	}
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	cfg.Port = port

	client, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestPutGetDelete(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestClient(t)

	var got payload
	found, err := client.GetJSON(ctx, "form:x", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, client.PutJSON(ctx, "form:x", payload{Name: "x", Count: 2}, 0))
	found, err = client.GetJSON(ctx, "form:x", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "x", Count: 2}, got)

	require.NoError(t, client.Delete(ctx, "form:x"))
	require.NoError(t, client.Delete(ctx, "form:x"))
	found, err = client.GetJSON(ctx, "form:x", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPutWithTTLExpires(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)

	require.NoError(t, client.PutJSON(ctx, "draft:1", payload{Name: "d"}, time.Hour))
	assert.Equal(t, time.Hour, mr.TTL("draft:1"))

	mr.FastForward(time.Hour + time.Second)

	var got payload
	found, err := client.GetJSON(ctx, "draft:1", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetJSONBadValue(t *testing.T) {
	client, mr := newTestClient(t)
	require.NoError(t, mr.Set("form:broken", "not json"))

	var got payload
	_, err := client.GetJSON(context.Background(), "form:broken", &got)
	assert.ErrorContains(t, err, "decode form:broken")
}

func TestListKeys(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestClient(t)

	for _, key := range []string{"form:a", "form:b", "draft:a", "formx"} {
		require.NoError(t, client.PutJSON(ctx, key, payload{Name: key}, 0))
	}

	keys, err := client.ListKeys(ctx, "form:")
	require.NoError(t, err)
	sort.Strings(keys)
	assert.Equal(t, []string{"form:a", "form:b"}, keys)
}

func TestNewFailsWithoutServer(t *testing.T) {
	_, err := New(context.Background(), config.RedisConfig{
		Host:        "127.0.0.1",
		Port:        1,
		DialTimeout: 100 * time.Millisecond,
	})
	assert.ErrorContains(t, err, "cant ping redis")
}
