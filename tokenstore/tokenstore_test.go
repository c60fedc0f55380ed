package tokenstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/remiges-tech/amountwords/tokenstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const domain = "example.bitrix24.ru"

func TestFromAuth(t *testing.T) {
	got := tokenstore.FromAuth(map[string]any{
		"access_token":    "a1",
		"refresh_token":   "r1",
		"client_endpoint": "https://example.bitrix24.ru/rest/",
		"expires":         "1700000000",
		"domain":          domain,
		"member_id":       "m1",
	})
	assert.Equal(t, tokenstore.Tokens{
		AccessToken:    "a1",
		RefreshToken:   "r1",
		ClientEndpoint: "https://example.bitrix24.ru/rest/",
		Expires:        "1700000000",
	}, got)

	assert.True(t, tokenstore.FromAuth(map[string]any{"domain": domain}).IsZero())
	assert.Equal(t, "3600", tokenstore.FromAuth(map[string]any{"expires": 3600}).Expires)
}

func TestMerge(t *testing.T) {
	old := tokenstore.Tokens{AccessToken: "a1", RefreshToken: "r1", Expires: "1"}
	got := tokenstore.Tokens{AccessToken: "a2", ClientEndpoint: "e"}.Merge(old)
	assert.Equal(t, tokenstore.Tokens{AccessToken: "a2", RefreshToken: "r1", ClientEndpoint: "e", Expires: "1"}, got)
}

// testStore runs the behaviour every Store must share.
func testStore(t *testing.T, s tokenstore.Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Load(ctx, domain)
	assert.ErrorIs(t, err, tokenstore.ErrNotFound)

	first := tokenstore.Tokens{AccessToken: "a1", RefreshToken: "r1", ClientEndpoint: "https://e/rest/", Expires: "100"}
	require.NoError(t, s.Save(ctx, domain, first))

	got, err := s.Load(ctx, domain)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	require.NoError(t, s.Save(ctx, domain, tokenstore.Tokens{AccessToken: "a2", Expires: "200"}))
	got, err = s.Load(ctx, domain)
	require.NoError(t, err)
	assert.Equal(t, tokenstore.Tokens{AccessToken: "a2", RefreshToken: "r1", ClientEndpoint: "https://e/rest/", Expires: "200"}, got)

	other := tokenstore.Tokens{AccessToken: "b1"}
	require.NoError(t, s.Save(ctx, "other.bitrix24.ru", other))
	got, err = s.Load(ctx, "other.bitrix24.ru")
	require.NoError(t, err)
	assert.Equal(t, other, got)

	assert.Error(t, s.Save(ctx, "", first))
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	testStore(t, tokenstore.NewFileStore(path))

	// A second store over the same file sees what the first one wrote.
	got, err := tokenstore.NewFileStore(path).Load(context.Background(), domain)
	require.NoError(t, err)
	assert.Equal(t, "a2", got.AccessToken)
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := tokenstore.NewFileStore(path)
	_, err := s.Load(context.Background(), domain)
	assert.ErrorIs(t, err, tokenstore.ErrNotFound)

	require.NoError(t, s.Save(context.Background(), domain, tokenstore.Tokens{AccessToken: "a1"}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"access_token": "a1"`)
}

func TestRedisStore(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	s := &tokenstore.RedisStore{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	defer s.Close()

	testStore(t, s)
	assert.Equal(t, "a2", mr.HGet("amount2words:tokens:"+domain, "access_token"))
}

func TestRedisStoreEmptyTokens(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	s := tokenstore.NewRedisStore(mr.Addr(), "", 0)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, domain, tokenstore.Tokens{}))
	got, err := s.Load(ctx, domain)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	require.NoError(t, s.Save(ctx, domain, tokenstore.Tokens{RefreshToken: "r1"}))
	require.NoError(t, s.Save(ctx, domain, tokenstore.Tokens{}))
	got, err = s.Load(ctx, domain)
	require.NoError(t, err)
	assert.Equal(t, "r1", got.RefreshToken)
}
