package core_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/mmk-alert-notify/internal/core"
	"github.com/target/mmk-alert-notify/internal/domain/model"
	"github.com/target/mmk-alert-notify/internal/mocks"
	"go.uber.org/mock/gomock"
)

func sampleReceiver() *model.AlertReceiver {
	expr := "message"
	return &model.AlertReceiver{
		ID:          "rcv-1",
		Name:        "ops",
		Type:        model.ChannelWeWorkRobot,
		AccessToken: "secret-key",
		BodyExpr:    &expr,
		OkStatus:    200,
		Enabled:     true,
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestReceiverCache_Get(t *testing.T) {
	t.Parallel()

	encoded, err := json.Marshal(map[string]any{
		"id":           "rcv-1",
		"name":         "ops",
		"type":         4,
		"access_token": "secret-key",
		"ok_status":    200,
		"enabled":      true,
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		id      string
		setup   func(*mocks.MockCacheRepository)
		want    *model.AlertReceiver
		wantErr bool
	}{
		{
			name:  "empty id skips cache",
			id:    "",
			setup: func(*mocks.MockCacheRepository) {},
		},
		{
			name: "miss",
			id:   "rcv-1",
			setup: func(c *mocks.MockCacheRepository) {
				c.EXPECT().Get(gomock.Any(), "receiver:v1:rcv-1").Return(nil, nil)
			},
		},
		{
			name: "hit",
			id:   "rcv-1",
			setup: func(c *mocks.MockCacheRepository) {
				c.EXPECT().Get(gomock.Any(), "receiver:v1:rcv-1").Return(encoded, nil)
			},
			want: &model.AlertReceiver{
				ID:          "rcv-1",
				Name:        "ops",
				Type:        model.ChannelWeWorkRobot,
				AccessToken: "secret-key",
				OkStatus:    200,
				Enabled:     true,
			},
		},
		{
			name: "cache error",
			id:   "rcv-1",
			setup: func(c *mocks.MockCacheRepository) {
				c.EXPECT().Get(gomock.Any(), "receiver:v1:rcv-1").Return(nil, errors.New("redis down"))
			},
			wantErr: true,
		},
		{
			name: "corrupt entry",
			id:   "rcv-1",
			setup: func(c *mocks.MockCacheRepository) {
				c.EXPECT().Get(gomock.Any(), "receiver:v1:rcv-1").Return([]byte("{not json"), nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			cache := mocks.NewMockCacheRepository(ctrl)
			tt.setup(cache)

			rc := core.NewReceiverCache(core.ReceiverCacheOptions{Cache: cache, Config: core.DefaultReceiverCacheConfig()})
			got, err := rc.Get(context.Background(), tt.id)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReceiverCache_PutRoundTrip(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	cache := mocks.NewMockCacheRepository(ctrl)

	var stored []byte
	cache.EXPECT().
		Set(gomock.Any(), "receiver:v1:rcv-1", gomock.Any(), 2*time.Minute).
		DoAndReturn(func(_ context.Context, _ string, value []byte, _ time.Duration) error {
			stored = value
			return nil
		})
	cache.EXPECT().Get(gomock.Any(), "receiver:v1:rcv-1").DoAndReturn(
		func(context.Context, string) ([]byte, error) { return stored, nil },
	)

	rc := core.NewReceiverCache(core.ReceiverCacheOptions{
		Cache:  cache,
		Config: core.ReceiverCacheConfig{TTL: 2 * time.Minute},
	})
	in := sampleReceiver()
	require.NoError(t, rc.Put(context.Background(), in))
	assert.Contains(t, string(stored), "secret-key")

	out, err := rc.Get(context.Background(), "rcv-1")
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestReceiverCache_Invalidate(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	cache := mocks.NewMockCacheRepository(ctrl)
	cache.EXPECT().Delete(gomock.Any(), "receiver:v1:rcv-1").Return(true, nil)
	cache.EXPECT().Delete(gomock.Any(), "receiver:v1:rcv-2").Return(false, errors.New("redis down"))

	rc := core.NewReceiverCache(core.ReceiverCacheOptions{Cache: cache})
	require.NoError(t, rc.Invalidate(context.Background(), "rcv-1"))
	require.Error(t, rc.Invalidate(context.Background(), "rcv-2"))
	require.NoError(t, rc.Invalidate(context.Background(), ""))
}

func TestReceiverCache_NilCacheAlwaysMisses(t *testing.T) {
	t.Parallel()

	rc := core.NewReceiverCache(core.ReceiverCacheOptions{})
	got, err := rc.Get(context.Background(), "rcv-1")
	require.NoError(t, err)
	assert.Nil(t, got)
	require.NoError(t, rc.Put(context.Background(), sampleReceiver()))
	require.NoError(t, rc.Invalidate(context.Background(), "rcv-1"))

	var nilCache *core.ReceiverCache
	got, err = nilCache.Get(context.Background(), "rcv-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
