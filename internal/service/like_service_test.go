package service_test

import (
	"Atelier/internal/model"
	"Atelier/internal/pkg/redis"
	"Atelier/internal/repository"
	"Atelier/internal/service"
	"Atelier/internal/testutil"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddLikeCreatesNotification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.CreateProfile(t, f.db, "owner")
	fan := testutil.CreateProfile(t, f.db, "fan")
	m := testutil.CreateModel(t, f.db, owner.ID, "chair")

	added, err := f.likes.AddLike(ctx, m.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, added)

	like, err := f.likeRepo.GetLike(ctx, m.ID, fan.ID)
	require.NoError(t, err)
	require.NotNil(t, like)
	require.NotNil(t, like.NotificationID)

	var n model.Notification
	require.NoError(t, f.db.First(&n, *like.NotificationID).Error)
	assert.Equal(t, model.ActionNewModelLike, n.ActionID)
	assert.Equal(t, fan.ID, n.NotifierID)
	assert.Equal(t, owner.ID, n.RecipientID)
	require.NotNil(t, n.ModelID)
	assert.Equal(t, m.ID, *n.ModelID)
	assert.Nil(t, n.InteriorID)
	assert.False(t, n.Seen)
}

func TestAddLikeTwiceIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.CreateProfile(t, f.db, "owner")
	fan := testutil.CreateProfile(t, f.db, "fan")
	m := testutil.CreateModel(t, f.db, owner.ID, "chair")

	added, err := f.likes.AddLike(ctx, m.ID, fan.ID)
	require.NoError(t, err)
	require.True(t, added)
	added, err = f.likes.AddLike(ctx, m.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, added)

	assert.EqualValues(t, 1, testutil.Count(t, f.db, &model.Like{}))
	assert.EqualValues(t, 1, testutil.Count(t, f.db, &model.Notification{}))
	count, err := f.likes.LikeCount(ctx, m.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestAddLikeInterior(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.CreateProfile(t, f.db, "owner")
	fan := testutil.CreateProfile(t, f.db, "fan")
	i := testutil.CreateInterior(t, f.db, owner.ID, "loft")

	added, err := f.likes.AddLike(ctx, i.ID, fan.ID)
	require.NoError(t, err)
	require.True(t, added)

	var n model.Notification
	require.NoError(t, f.db.First(&n).Error)
	assert.Equal(t, model.ActionNewInteriorLike, n.ActionID)
	require.NotNil(t, n.InteriorID)
	assert.Equal(t, i.ID, *n.InteriorID)
	assert.Nil(t, n.ModelID)
}

func TestAddLikeUnknownEntity(t *testing.T) {
	f := newFixture(t)
	_, err := f.likes.AddLike(context.Background(), 42, 1)
	assert.ErrorIs(t, err, service.ErrEntityNotFound)
}

func TestRemoveLike(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.CreateProfile(t, f.db, "owner")
	fan := testutil.CreateProfile(t, f.db, "fan")
	m := testutil.CreateModel(t, f.db, owner.ID, "chair")

	_, err := f.likes.AddLike(ctx, m.ID, fan.ID)
	require.NoError(t, err)
	require.NoError(t, f.likes.RemoveLike(ctx, m.ID, fan.ID))

	assert.EqualValues(t, 0, testutil.Count(t, f.db, &model.Like{}))
	assert.EqualValues(t, 0, testutil.Count(t, f.db, &model.Notification{}))
	liked, err := f.likes.IsLiked(ctx, m.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	// 未点赞时取消不报错
	require.NoError(t, f.likes.RemoveLike(ctx, m.ID, fan.ID))
}

func TestSelfLikeNotificationPolicy(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t)
	owner := testutil.CreateProfile(t, f.db, "owner")
	m := testutil.CreateModel(t, f.db, owner.ID, "chair")
	_, err := f.likes.AddLike(ctx, m.ID, owner.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, testutil.Count(t, f.db, &model.Notification{}))

	suppressed := newFixture(t, func(o *service.Options) { o.SuppressSelfNotify = true })
	owner = testutil.CreateProfile(t, suppressed.db, "owner")
	m = testutil.CreateModel(t, suppressed.db, owner.ID, "chair")
	added, err := suppressed.likes.AddLike(ctx, m.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, added)
	assert.EqualValues(t, 0, testutil.Count(t, suppressed.db, &model.Notification{}))

	like, err := suppressed.likeRepo.GetLike(ctx, m.ID, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, like)
	assert.Nil(t, like.NotificationID)
}

// staleLikeRepo 预检查永远看不到已有点赞，模拟并发请求同时通过预检查
type staleLikeRepo struct {
	repository.LikeRepo
}

func (staleLikeRepo) GetLike(context.Context, uint64, uint64) (*model.Like, error) {
	return nil, nil
}

func TestAddLikeLosingRaceRollsBack(t *testing.T) {
	db := testutil.NewDB(t)
	f := buildFixture(db, staleLikeRepo{repository.NewLikeRepo(db)}, redis.NewCounter(nil), defaultOptions())
	ctx := context.Background()
	owner := testutil.CreateProfile(t, db, "owner")
	fan := testutil.CreateProfile(t, db, "fan")
	m := testutil.CreateModel(t, db, owner.ID, "chair")

	added, err := f.likes.AddLike(ctx, m.ID, fan.ID)
	require.NoError(t, err)
	require.True(t, added)

	added, err = f.likes.AddLike(ctx, m.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, added)
	assert.EqualValues(t, 1, testutil.Count(t, db, &model.Like{}))
	assert.EqualValues(t, 1, testutil.Count(t, db, &model.Notification{}))
}

func TestConcurrentAddLike(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.CreateProfile(t, f.db, "owner")
	fan := testutil.CreateProfile(t, f.db, "fan")
	m := testutil.CreateModel(t, f.db, owner.ID, "chair")

	const workers = 8
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		wins  int
		errs  []error
		start = make(chan struct{})
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			added, err := f.likes.AddLike(ctx, m.ID, fan.ID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
			}
			if added {
				wins++
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Empty(t, errs)
	assert.Equal(t, 1, wins)
	assert.EqualValues(t, 1, testutil.Count(t, f.db, &model.Like{}))
	assert.EqualValues(t, 1, testutil.Count(t, f.db, &model.Notification{}))
}

func TestLikeComment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.CreateProfile(t, f.db, "owner")
	author := testutil.CreateProfile(t, f.db, "author")
	fan := testutil.CreateProfile(t, f.db, "fan")
	m := testutil.CreateModel(t, f.db, owner.ID, "chair")

	c, err := f.comments.Create(ctx, service.CreateCommentParams{
		EntityID: m.ID, EntitySource: model.EntitySourceModel, UserID: author.ID, Text: "nice",
	})
	require.NoError(t, err)

	added, err := f.likes.LikeComment(ctx, c.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, added)
	added, err = f.likes.LikeComment(ctx, c.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, added)

	var n model.Notification
	require.NoError(t, f.db.Where("action_id = ?", model.ActionNewCommentLike).First(&n).Error)
	assert.Equal(t, author.ID, n.RecipientID)
	require.NotNil(t, n.ModelID)
	assert.Equal(t, m.ID, *n.ModelID)

	count, err := f.likes.CommentLikeCount(ctx, c.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	require.NoError(t, f.likes.UnlikeComment(ctx, c.ID, fan.ID))
	assert.EqualValues(t, 0, testutil.Count(t, f.db, &model.CommentLike{}))
	// 只剩评论本身产生的通知
	assert.EqualValues(t, 1, testutil.Count(t, f.db, &model.Notification{}))

	_, err = f.likes.LikeComment(ctx, 999, fan.ID)
	assert.ErrorIs(t, err, service.ErrCommentNotFound)
}
