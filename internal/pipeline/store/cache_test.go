package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/dealdesk/internal/pipeline"
	"github.com/MrJamesThe3rd/dealdesk/internal/pipeline/store"
)

func newCached(t *testing.T) (*store.Cached, *pipeline.MockRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := pipeline.NewMockRepository(gomock.NewController(t))

	return store.NewCached(repo, client, time.Minute), repo, mr
}

func sampleBoard() []pipeline.Stage {
	stages := pipeline.DefaultStages()
	stages[1].Cards = []pipeline.Card{{ID: "estimate-3", Customer: "Acme Corp", Revisions: 2}}

	return stages
}

func TestCached_Get(t *testing.T) {
	t.Run("LoadsOnceThenServesFromCache", func(t *testing.T) {
		cached, repo, _ := newCached(t)
		repo.EXPECT().Get(gomock.Any()).Return(sampleBoard(), nil).Times(1)

		first, err := cached.Get(context.Background())
		require.NoError(t, err)

		second, err := cached.Get(context.Background())
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, "estimate-3", second[1].Cards[0].ID)
	})

	t.Run("EmptyBoardIsNotCached", func(t *testing.T) {
		cached, repo, mr := newCached(t)
		repo.EXPECT().Get(gomock.Any()).Return(nil, nil).Times(2)

		for range 2 {
			stages, err := cached.Get(context.Background())
			require.NoError(t, err)
			assert.Nil(t, stages)
		}

		assert.False(t, mr.Exists("dealdesk:pipeline:board"))
	})

	t.Run("RepositoryError", func(t *testing.T) {
		cached, repo, _ := newCached(t)
		repo.EXPECT().Get(gomock.Any()).Return(nil, errors.New("db down"))

		_, err := cached.Get(context.Background())
		assert.Error(t, err)
	})

	t.Run("RedisDownFallsBackToRepository", func(t *testing.T) {
		cached, repo, mr := newCached(t)
		mr.Close()
		repo.EXPECT().Get(gomock.Any()).Return(sampleBoard(), nil)

		stages, err := cached.Get(context.Background())
		require.NoError(t, err)
		assert.Len(t, stages, len(pipeline.DefaultStages()))
	})
}

func TestCached_Save(t *testing.T) {
	t.Run("DropsCachedCopy", func(t *testing.T) {
		cached, repo, mr := newCached(t)

		repo.EXPECT().Get(gomock.Any()).Return(pipeline.DefaultStages(), nil)
		_, err := cached.Get(context.Background())
		require.NoError(t, err)
		require.True(t, mr.Exists("dealdesk:pipeline:board"))

		board := sampleBoard()
		repo.EXPECT().Save(gomock.Any(), board).Return(nil)
		require.NoError(t, cached.Save(context.Background(), board))
		assert.False(t, mr.Exists("dealdesk:pipeline:board"))

		repo.EXPECT().Get(gomock.Any()).Return(board, nil)
		stages, err := cached.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", stages[1].Cards[0].Customer)
	})

	t.Run("FailureInvalidates", func(t *testing.T) {
		cached, repo, mr := newCached(t)

		repo.EXPECT().Get(gomock.Any()).Return(sampleBoard(), nil)
		_, err := cached.Get(context.Background())
		require.NoError(t, err)

		repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
		assert.Error(t, cached.Save(context.Background(), pipeline.DefaultStages()))

		assert.False(t, mr.Exists("dealdesk:pipeline:board"))
	})

	t.Run("SaveDuringLoadWins", func(t *testing.T) {
		cached, repo, mr := newCached(t)
		older := pipeline.DefaultStages()
		newer := sampleBoard()

		repo.EXPECT().Save(gomock.Any(), newer).Return(nil)
		repo.EXPECT().Get(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]pipeline.Stage, error) {
			assert.NoError(t, cached.Save(ctx, newer))
			return older, nil
		})

		_, err := cached.Get(context.Background())
		require.NoError(t, err)
		assert.False(t, mr.Exists("dealdesk:pipeline:board"))

		repo.EXPECT().Get(gomock.Any()).Return(newer, nil)
		stages, err := cached.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "estimate-3", stages[1].Cards[0].ID)
	})
}

func TestCached_Get_SharedLoadSurvivesCancel(t *testing.T) {
	cached, repo, _ := newCached(t)

	ctx, cancel := context.WithCancel(context.Background())
	repo.EXPECT().Get(gomock.Any()).DoAndReturn(func(loadCtx context.Context) ([]pipeline.Stage, error) {
		cancel()
		assert.NoError(t, loadCtx.Err())

		return sampleBoard(), nil
	}).MinTimes(1)

	_, _ = cached.Get(ctx)

	stages, err := cached.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "estimate-3", stages[1].Cards[0].ID)
}
