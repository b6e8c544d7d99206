package service_test

import (
	"Atelier/internal/api/config"
	"Atelier/internal/api/dto"
	"Atelier/internal/model"
	"Atelier/internal/pkg/database"
	"Atelier/internal/service"
	"Atelier/internal/testutil"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type thread struct {
	owner, alice, bob *model.Profile
	entity            *model.Entity
}

func newThread(t *testing.T, f *fixture) thread {
	t.Helper()
	return thread{
		owner: testutil.CreateProfile(t, f.db, "owner"),
		alice: testutil.CreateProfile(t, f.db, "alice"),
		bob:   testutil.CreateProfile(t, f.db, "bob"),
	}
}

func (th *thread) comment(t *testing.T, f *fixture, userID uint64, text string, parentID *uint64) *model.Comment {
	t.Helper()
	c, err := f.comments.Create(context.Background(), service.CreateCommentParams{
		EntityID:     th.entity.ID,
		EntitySource: th.entity.Source,
		UserID:       userID,
		Text:         text,
		ParentID:     parentID,
	})
	require.NoError(t, err)
	return c
}

func TestCreateCommentNotifications(t *testing.T) {
	f := newFixture(t)
	th := newThread(t, f)
	th.entity = testutil.CreateModel(t, f.db, th.owner.ID, "lamp")

	top := th.comment(t, f, th.alice.ID, "  love it  ", nil)
	assert.Equal(t, "love it", top.Text)
	require.NotNil(t, top.NotificationID)

	var n model.Notification
	require.NoError(t, f.db.First(&n, *top.NotificationID).Error)
	assert.Equal(t, model.ActionNewComment, n.ActionID)
	assert.Equal(t, th.owner.ID, n.RecipientID)
	assert.Equal(t, th.alice.ID, n.NotifierID)

	reply := th.comment(t, f, th.bob.ID, "me too", &top.ID)
	require.NotNil(t, reply.NotificationID)
	var rn model.Notification
	require.NoError(t, f.db.First(&rn, *reply.NotificationID).Error)
	assert.Equal(t, model.ActionNewComment, rn.ActionID)
	assert.Equal(t, th.alice.ID, rn.RecipientID)
	assert.Equal(t, th.bob.ID, rn.NotifierID)

	count, err := f.comments.CommentCount(context.Background(), th.entity.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestCreateCommentValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	th := newThread(t, f)
	th.entity = testutil.CreateModel(t, f.db, th.owner.ID, "lamp")
	other := testutil.CreateInterior(t, f.db, th.owner.ID, "loft")

	top := th.comment(t, f, th.alice.ID, "first", nil)
	reply := th.comment(t, f, th.bob.ID, "second", &top.ID)
	missing := uint64(12345)

	cases := []struct {
		name   string
		params service.CreateCommentParams
		want   error
	}{
		{"bad source", service.CreateCommentParams{EntityID: th.entity.ID, EntitySource: "post", UserID: 1, Text: "x"}, service.ErrParamInvalid},
		{"blank text", service.CreateCommentParams{EntityID: th.entity.ID, EntitySource: model.EntitySourceModel, UserID: 1, Text: "   "}, service.ErrParamInvalid},
		{"wrong source for id", service.CreateCommentParams{EntityID: th.entity.ID, EntitySource: model.EntitySourceInterior, UserID: 1, Text: "x"}, service.ErrEntityNotFound},
		{"missing parent", service.CreateCommentParams{EntityID: th.entity.ID, EntitySource: model.EntitySourceModel, UserID: 1, Text: "x", ParentID: &missing}, service.ErrCommentNotFound},
		{"parent on other entity", service.CreateCommentParams{EntityID: other.ID, EntitySource: model.EntitySourceInterior, UserID: 1, Text: "x", ParentID: &top.ID}, service.ErrCommentParentMismatch},
		{"reply to reply", service.CreateCommentParams{EntityID: th.entity.ID, EntitySource: model.EntitySourceModel, UserID: 1, Text: "x", ParentID: &reply.ID}, service.ErrCommentTooDeep},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.comments.Create(ctx, tc.params)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCreateReplyReadsParentInTransaction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	th := newThread(t, f)
	th.entity = testutil.CreateModel(t, f.db, th.owner.ID, "lamp")
	top := th.comment(t, f, th.alice.ID, "first", nil)
	before := testutil.Count(t, f.db, &model.Notification{})

	// 同一事务内父评论已被删除，回复必须看到删除后的状态
	err := database.Transaction(ctx, f.db, func(ctx context.Context) error {
		if _, err := f.comments.Delete(ctx, model.CommentFilter{ID: &top.ID}); err != nil {
			return err
		}
		_, err := f.comments.Create(ctx, service.CreateCommentParams{
			EntityID:     th.entity.ID,
			EntitySource: model.EntitySourceModel,
			UserID:       th.bob.ID,
			Text:         "too late",
			ParentID:     &top.ID,
		})
		return err
	})
	assert.ErrorIs(t, err, service.ErrCommentNotFound)
	assert.Equal(t, before, testutil.Count(t, f.db, &model.Notification{}))
	assert.EqualValues(t, 1, testutil.Count(t, f.db, &model.Comment{}))

	_, err = f.comments.Delete(ctx, model.CommentFilter{ID: &top.ID})
	require.NoError(t, err)
	_, err = f.comments.Create(ctx, service.CreateCommentParams{
		EntityID:     th.entity.ID,
		EntitySource: model.EntitySourceModel,
		UserID:       th.bob.ID,
		Text:         "too late",
		ParentID:     &top.ID,
	})
	assert.ErrorIs(t, err, service.ErrCommentNotFound)
	assert.EqualValues(t, 0, testutil.Count(t, f.db, &model.Notification{}))
	assert.EqualValues(t, 0, testutil.Count(t, f.db, &model.Comment{}))
}

func TestListTopLevelWithReplies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	th := newThread(t, f)
	th.entity = testutil.CreateModel(t, f.db, th.owner.ID, "lamp")

	first := th.comment(t, f, th.alice.ID, "first", nil)
	second := th.comment(t, f, th.bob.ID, "second", nil)
	r1 := th.comment(t, f, th.bob.ID, "reply one", &first.ID)
	r2 := th.comment(t, f, th.owner.ID, "reply two", &first.ID)

	views, err := f.comments.ListTopLevel(ctx,
		model.CommentFilter{EntityID: &th.entity.ID},
		model.Sort{OrderBy: "created_at", Desc: true},
		model.Page{Limit: 10},
	)
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, second.ID, views[0].ID)
	assert.NotNil(t, views[0].Replies)
	assert.Empty(t, views[0].Replies)
	assert.Equal(t, "bob", views[0].User.Username)

	assert.Equal(t, first.ID, views[1].ID)
	require.Len(t, views[1].Replies, 2)
	assert.Equal(t, r1.ID, views[1].Replies[0].ID)
	assert.Equal(t, r2.ID, views[1].Replies[1].ID)
	assert.Equal(t, "owner", views[1].Replies[1].User.Username)
	assert.Equal(t, th.alice.FullName, views[1].User.FullName)

	page, err := f.comments.ListTopLevel(ctx,
		model.CommentFilter{EntityID: &th.entity.ID},
		model.Sort{OrderBy: "created_at"},
		model.Page{Limit: 1},
	)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, first.ID, page[0].ID)
	assert.Len(t, page[0].Replies, 2)
}

func TestListCommentsDTO(t *testing.T) {
	f := newFixture(t)
	th := newThread(t, f)
	th.entity = testutil.CreateModel(t, f.db, th.owner.ID, "lamp")
	th.comment(t, f, th.alice.ID, "solo", nil)

	list, err := f.comments.List(context.Background(), &dto.CommentListReq{EntityID: th.entity.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "solo", list[0].Text)
	assert.Equal(t, "model", list[0].EntitySource)
	assert.NotNil(t, list[0].Replies)
	assert.Equal(t, "alice", list[0].User.Username)
	assert.NotEmpty(t, list[0].CreatedAt)
}

func TestUpdateCommentAuthorOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	th := newThread(t, f)
	th.entity = testutil.CreateModel(t, f.db, th.owner.ID, "lamp")
	c := th.comment(t, f, th.alice.ID, "typo", nil)

	_, err := f.comments.Update(ctx, c.ID, th.bob.ID, "hijack")
	assert.ErrorIs(t, err, service.UnauthorizedError)

	updated, err := f.comments.Update(ctx, c.ID, th.alice.ID, "fixed")
	require.NoError(t, err)
	assert.Equal(t, "fixed", updated.Text)

	var stored model.Comment
	require.NoError(t, f.db.First(&stored, c.ID).Error)
	assert.Equal(t, "fixed", stored.Text)

	_, err = f.comments.Update(ctx, 777, th.alice.ID, "x")
	assert.ErrorIs(t, err, service.ErrCommentNotFound)
}

func TestDeleteCommentOrphansReplies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	th := newThread(t, f)
	th.entity = testutil.CreateModel(t, f.db, th.owner.ID, "lamp")
	top := th.comment(t, f, th.alice.ID, "top", nil)
	reply := th.comment(t, f, th.bob.ID, "reply", &top.ID)
	_, err := f.likes.LikeComment(ctx, top.ID, th.bob.ID)
	require.NoError(t, err)

	deleted, err := f.comments.Delete(ctx, model.CommentFilter{ID: &top.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	assert.EqualValues(t, 1, testutil.Count(t, f.db, &model.Comment{}))
	assert.EqualValues(t, 0, testutil.Count(t, f.db, &model.CommentLike{}))
	// 只剩回复产生的通知
	var notifications []model.Notification
	require.NoError(t, f.db.Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, *reply.NotificationID, notifications[0].ID)
}

func TestDeleteCommentCascadesReplies(t *testing.T) {
	f := newFixture(t, func(o *service.Options) { o.ReplyPolicy = config.ReplyPolicyCascade })
	ctx := context.Background()
	th := newThread(t, f)
	th.entity = testutil.CreateModel(t, f.db, th.owner.ID, "lamp")
	top := th.comment(t, f, th.alice.ID, "top", nil)
	th.comment(t, f, th.bob.ID, "reply", &top.ID)
	th.comment(t, f, th.owner.ID, "reply 2", &top.ID)
	keep := th.comment(t, f, th.bob.ID, "other", nil)

	deleted, err := f.comments.DeleteOwn(ctx, top.ID, th.alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, deleted)

	var left []model.Comment
	require.NoError(t, f.db.Find(&left).Error)
	require.Len(t, left, 1)
	assert.Equal(t, keep.ID, left[0].ID)
	assert.EqualValues(t, 1, testutil.Count(t, f.db, &model.Notification{}))
}

func TestDeleteCommentGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	th := newThread(t, f)
	th.entity = testutil.CreateModel(t, f.db, th.owner.ID, "lamp")
	c := th.comment(t, f, th.alice.ID, "top", nil)

	_, err := f.comments.Delete(ctx, model.CommentFilter{})
	assert.ErrorIs(t, err, service.ErrParamInvalid)

	_, err = f.comments.DeleteOwn(ctx, c.ID, th.bob.ID)
	assert.ErrorIs(t, err, service.UnauthorizedError)

	none := uint64(999)
	deleted, err := f.comments.Delete(ctx, model.CommentFilter{ID: &none})
	require.NoError(t, err)
	assert.Zero(t, deleted)
}
