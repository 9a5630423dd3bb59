package data

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/mmk-alert-notify/internal/domain/model"
	"github.com/target/mmk-alert-notify/internal/testutil"
)

func TestReceiverRepo_CreateAndGet(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		fixed := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
		repo := NewReceiverRepoWithTimeProvider(db, NewFixedTimeProvider(fixed))
		ctx := context.Background()

		created, err := repo.Create(ctx, testutil.NewReceiverRequest().WithName("  ops-robot  ").Build())
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)
		assert.Equal(t, "ops-robot", created.Name)
		assert.Equal(t, model.ChannelWeWorkRobot, created.Type)
		assert.Equal(t, "test-robot-key", created.AccessToken)
		assert.Equal(t, 200, created.OkStatus)
		assert.True(t, created.Enabled)
		assert.True(t, created.CreatedAt.Equal(fixed))
		assert.True(t, created.UpdatedAt.Equal(fixed))
		assert.Nil(t, created.BodyExpr)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, created.Name, got.Name)
		assert.Equal(t, created.Type, got.Type)
	})
}

func TestReceiverRepo_CreateWebhook(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewReceiverRepo(db)
		ctx := context.Background()

		req := testutil.NewReceiverRequest().
			WithName("incident-hook").
			WithType(model.ChannelWebhook).
			WithToken("").
			WithURL("https://hooks.example.com/incidents").
			WithBodyExpr("{summary: message}").
			WithHeaders("X-Team: sre").
			Build()
		req.OkStatus = testutil.IntPtr(202)

		created, err := repo.Create(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "POST", created.Method)
		assert.Equal(t, 202, created.OkStatus)
		require.NotNil(t, created.BodyExpr)
		assert.Equal(t, "{summary: message}", *created.BodyExpr)
		require.NotNil(t, created.Headers)
		assert.Equal(t, "X-Team: sre", *created.Headers)
	})
}

func TestReceiverRepo_CreateValidation(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewReceiverRepo(db)
		ctx := context.Background()

		_, err := repo.Create(ctx, nil)
		require.Error(t, err)

		_, err = repo.Create(ctx, testutil.NewReceiverRequest().WithToken("").Build())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access_token")
	})
}

func TestReceiverRepo_DuplicateName(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewReceiverRepo(db)
		ctx := context.Background()

		_, err := repo.Create(ctx, testutil.NewReceiverRequest().WithName("dup-name").Build())
		require.NoError(t, err)

		_, err = repo.Create(ctx, testutil.NewReceiverRequest().WithName("dup-name").Build())
		require.ErrorIs(t, err, ErrReceiverNameExists)

		other, err := repo.Create(ctx, testutil.NewReceiverRequest().WithName("other-name").Build())
		require.NoError(t, err)
		_, err = repo.Update(ctx, other.ID, &model.UpdateAlertReceiverRequest{Name: testutil.StringPtr("dup-name")})
		require.ErrorIs(t, err, ErrReceiverNameExists)
	})
}

func TestReceiverRepo_GetByID_NotFound(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewReceiverRepo(db)
		ctx := context.Background()

		_, err := repo.GetByID(ctx, uuid.NewString())
		require.ErrorIs(t, err, ErrReceiverNotFound)

		_, err = repo.GetByID(ctx, "not-a-uuid")
		require.ErrorIs(t, err, ErrReceiverNotFound)
	})
}

func TestReceiverRepo_GetByIDs(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewReceiverRepo(db)
		ctx := context.Background()

		a, err := repo.Create(ctx, testutil.NewReceiverRequest().WithName("by-ids-a").Build())
		require.NoError(t, err)
		b, err := repo.Create(ctx, testutil.NewReceiverRequest().WithName("by-ids-b").Build())
		require.NoError(t, err)

		got, err := repo.GetByIDs(ctx, []string{a.ID, b.ID, uuid.NewString(), "bogus"})
		require.NoError(t, err)
		ids := make([]string, 0, len(got))
		for _, r := range got {
			ids = append(ids, r.ID)
		}
		assert.ElementsMatch(t, []string{a.ID, b.ID}, ids)

		none, err := repo.GetByIDs(ctx, []string{"bogus"})
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestReceiverRepo_List(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		tp := NewFixedTimeProvider(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
		repo := NewReceiverRepoWithTimeProvider(db, tp)
		ctx := context.Background()

		for i := range 3 {
			tp.AddTime(time.Minute)
			_, err := repo.Create(ctx, testutil.NewReceiverRequest().WithName(fmt.Sprintf("wework-%d", i)).Build())
			require.NoError(t, err)
		}
		tp.AddTime(time.Minute)
		_, err := repo.Create(ctx, testutil.NewReceiverRequest().
			WithName("dingtalk-disabled").
			WithType(model.ChannelDingTalkRobot).
			Disabled().
			Build())
		require.NoError(t, err)

		t.Run("newest first", func(t *testing.T) {
			all, err := repo.List(ctx, model.ReceiverListOptions{})
			require.NoError(t, err)
			require.Len(t, all, 4)
			assert.Equal(t, "dingtalk-disabled", all[0].Name)
			assert.Equal(t, "wework-0", all[3].Name)
		})

		t.Run("filter by type", func(t *testing.T) {
			ct := model.ChannelDingTalkRobot
			got, err := repo.List(ctx, model.ReceiverListOptions{Type: &ct})
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, model.ChannelDingTalkRobot, got[0].Type)
		})

		t.Run("filter by enabled", func(t *testing.T) {
			got, err := repo.List(ctx, model.ReceiverListOptions{Enabled: testutil.BoolPtr(true)})
			require.NoError(t, err)
			assert.Len(t, got, 3)
		})

		t.Run("filter by name", func(t *testing.T) {
			got, err := repo.List(ctx, model.ReceiverListOptions{NameContains: "WEWORK"})
			require.NoError(t, err)
			assert.Len(t, got, 3)

			got, err = repo.List(ctx, model.ReceiverListOptions{NameContains: "wework_"})
			require.NoError(t, err)
			assert.Empty(t, got, "underscore must match literally")
		})

		t.Run("pagination", func(t *testing.T) {
			got, err := repo.List(ctx, model.ReceiverListOptions{Limit: 2, Offset: 1})
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, "wework-2", got[0].Name)
			assert.Equal(t, "wework-1", got[1].Name)
		})
	})
}

func TestReceiverRepo_Update(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		tp := NewFixedTimeProvider(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
		repo := NewReceiverRepoWithTimeProvider(db, tp)
		ctx := context.Background()

		created, err := repo.Create(ctx, testutil.WebhookReceiverRequest("update-me", "https://hooks.example.com/a"))
		require.NoError(t, err)

		tp.AddTime(time.Hour)
		updated, err := repo.Update(ctx, created.ID, &model.UpdateAlertReceiverRequest{
			URL:      testutil.StringPtr("https://hooks.example.com/b"),
			BodyExpr: testutil.StringPtr("message"),
			Enabled:  testutil.BoolPtr(false),
		})
		require.NoError(t, err)
		assert.Equal(t, "https://hooks.example.com/b", updated.URL)
		require.NotNil(t, updated.BodyExpr)
		assert.Equal(t, "message", *updated.BodyExpr)
		assert.False(t, updated.Enabled)
		assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
		assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))

		cleared, err := repo.Update(ctx, created.ID, &model.UpdateAlertReceiverRequest{
			BodyExpr: testutil.StringPtr(""),
		})
		require.NoError(t, err)
		assert.Nil(t, cleared.BodyExpr)

		_, err = repo.Update(ctx, uuid.NewString(), &model.UpdateAlertReceiverRequest{Enabled: testutil.BoolPtr(true)})
		require.ErrorIs(t, err, ErrReceiverNotFound)

		_, err = repo.Update(ctx, created.ID, &model.UpdateAlertReceiverRequest{})
		require.Error(t, err)
	})
}

func TestReceiverRepo_Delete(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewReceiverRepo(db)
		ctx := context.Background()

		created, err := repo.Create(ctx, testutil.NewReceiverRequest().WithName("delete-me").Build())
		require.NoError(t, err)

		deleted, err := repo.Delete(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.Delete(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, deleted)

		deleted, err = repo.Delete(ctx, "bogus")
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}

func TestReceiverRepo_ConcurrentCreate(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewReceiverRepo(db)
		ctx := context.Background()

		const workers = 8
		var (
			wg  sync.WaitGroup
			mu  sync.Mutex
			ids = make(map[string]struct{})
		)
		errs := make(chan error, workers)
		for i := range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				r, err := repo.Create(ctx, testutil.NewReceiverRequest().WithName(fmt.Sprintf("concurrent-%d", i)).Build())
				if err != nil {
					errs <- err
					return
				}
				mu.Lock()
				ids[r.ID] = struct{}{}
				mu.Unlock()
			}()
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			t.Errorf("concurrent create failed: %v", err)
		}
		assert.Len(t, ids, workers)
	})
}

func TestMapReceiverWriteErr_PassThrough(t *testing.T) {
	err := fmt.Errorf("boom")
	assert.Equal(t, err, mapReceiverWriteErr(err))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%\_off\\`, escapeLike(`50%_off\`))
}
