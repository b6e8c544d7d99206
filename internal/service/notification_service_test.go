package service_test

import (
	"Atelier/internal/api/dto"
	"Atelier/internal/model"
	"Atelier/internal/pkg/util"
	"Atelier/internal/service"
	"Atelier/internal/testutil"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateNotificationRejectsUnknownAction(t *testing.T) {
	f := newFixture(t)
	_, err := f.notifications.Create(context.Background(), service.CreateNotificationParams{
		ActionID: "poke", NotifierID: 1, RecipientID: 2,
	})
	assert.ErrorIs(t, err, service.ErrParamInvalid)
}

func TestListForRecipient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.CreateProfile(t, f.db, "owner")
	fan := testutil.CreateProfile(t, f.db, "fan")
	m := testutil.CreateModel(t, f.db, owner.ID, "chair")
	testutil.AddModelImage(t, f.db, m.ID, "covers/b.png", true)
	testutil.AddModelImage(t, f.db, m.ID, "covers/a.png", true)
	testutil.AddModelImage(t, f.db, m.ID, "covers/0-side.png", false)
	i := testutil.CreateInterior(t, f.db, owner.ID, "loft")

	older, err := f.notifications.Create(ctx, service.CreateNotificationParams{
		ActionID: model.ActionNewModelLike, NotifierID: fan.ID, RecipientID: owner.ID, Subject: m,
	})
	require.NoError(t, err)
	plain, err := f.notifications.Create(ctx, service.CreateNotificationParams{
		ActionID: model.ActionBanned, NotifierID: fan.ID, RecipientID: owner.ID, Message: util.Ptr("spam"),
	})
	require.NoError(t, err)
	newest, err := f.notifications.Create(ctx, service.CreateNotificationParams{
		ActionID: model.ActionNewInteriorLike, NotifierID: fan.ID, RecipientID: owner.ID, Subject: i,
	})
	require.NoError(t, err)
	_, err = f.notifications.Create(ctx, service.CreateNotificationParams{
		ActionID: model.ActionNewLike, NotifierID: owner.ID, RecipientID: fan.ID,
	})
	require.NoError(t, err)

	marked, err := f.notifications.MarkSeen(ctx, owner.ID, model.NotificationFilter{ID: &newest.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, marked)

	views, err := f.notifications.ListForRecipient(ctx, owner.ID, model.NotificationFilter{}, model.Page{})
	require.NoError(t, err)
	require.Len(t, views, 3)

	// 未读优先，同状态新的在前
	assert.Equal(t, plain.ID, views[0].ID)
	assert.Equal(t, older.ID, views[1].ID)
	assert.Equal(t, newest.ID, views[2].ID)
	assert.True(t, views[2].Seen)

	assert.Nil(t, views[0].Model)
	assert.Nil(t, views[0].Interior)
	require.NotNil(t, views[0].Message)
	assert.Equal(t, "spam", *views[0].Message)
	assert.Equal(t, model.ActionBanned, views[0].Action.Name)

	require.NotNil(t, views[1].Model)
	assert.Nil(t, views[1].Interior)
	assert.Equal(t, m.ID, views[1].Model.ID)
	assert.Equal(t, m.Slug, views[1].Model.Slug)
	require.NotNil(t, views[1].Model.Cover)
	assert.Equal(t, "covers/a.png", *views[1].Model.Cover)
	assert.Equal(t, "liked your model", views[1].Action.Description)
	assert.Equal(t, "fan", views[1].Notifier.Username)

	require.NotNil(t, views[2].Interior)
	assert.Equal(t, i.ID, views[2].Interior.ID)
	assert.Nil(t, views[2].Interior.Cover)
}

func TestListForRecipientSkipsMissingNotifier(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.CreateProfile(t, f.db, "owner")
	fan := testutil.CreateProfile(t, f.db, "fan")

	kept, err := f.notifications.Create(ctx, service.CreateNotificationParams{
		ActionID: model.ActionNewMessage, NotifierID: fan.ID, RecipientID: owner.ID,
	})
	require.NoError(t, err)
	_, err = f.notifications.Create(ctx, service.CreateNotificationParams{
		ActionID: model.ActionNewMessage, NotifierID: 9999, RecipientID: owner.ID,
	})
	require.NoError(t, err)

	views, err := f.notifications.ListForRecipient(ctx, owner.ID, model.NotificationFilter{}, model.Page{})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, kept.ID, views[0].ID)
	assert.Equal(t, "fan", views[0].Notifier.Username)
}

func TestUnreadCountAndMarkSeen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for range 3 {
		_, err := f.notifications.Create(ctx, service.CreateNotificationParams{
			ActionID: model.ActionNewMessage, NotifierID: 1, RecipientID: 2,
		})
		require.NoError(t, err)
	}

	unread, err := f.notifications.UnreadCount(ctx, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, unread)

	marked, err := f.notifications.MarkSeen(ctx, 2, model.NotificationFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, marked)

	marked, err = f.notifications.MarkSeen(ctx, 2, model.NotificationFilter{})
	require.NoError(t, err)
	assert.Zero(t, marked)

	unread, err = f.notifications.UnreadCount(ctx, 2)
	require.NoError(t, err)
	assert.Zero(t, unread)

	// 别人的通知不受影响
	marked, err = f.notifications.MarkSeen(ctx, 1, model.NotificationFilter{})
	require.NoError(t, err)
	assert.Zero(t, marked)
}

func TestDeleteNotifications(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	n, err := f.notifications.Create(ctx, service.CreateNotificationParams{
		ActionID: model.ActionNewMessage, NotifierID: 1, RecipientID: 2,
	})
	require.NoError(t, err)

	_, err = f.notifications.DeleteBy(ctx, model.NotificationFilter{})
	assert.ErrorIs(t, err, service.ErrParamInvalid)

	assert.ErrorIs(t, f.notifications.DeleteForRecipient(ctx, 1, n.ID), service.UnauthorizedError)
	assert.ErrorIs(t, f.notifications.DeleteForRecipient(ctx, 2, 404), service.ErrNotificationNotFound)
	require.NoError(t, f.notifications.DeleteForRecipient(ctx, 2, n.ID))

	affected, err := f.notifications.DeleteByID(ctx, n.ID)
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestPurgeSeen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	old := time.Now().Add(-48 * time.Hour)
	rows := []*model.Notification{
		{ActionID: model.ActionNewMessage, NotifierID: 1, RecipientID: 2, Seen: true, CreatedAt: old},
		{ActionID: model.ActionNewMessage, NotifierID: 1, RecipientID: 2, Seen: false, CreatedAt: old},
		{ActionID: model.ActionNewMessage, NotifierID: 1, RecipientID: 2, Seen: true},
	}
	for _, n := range rows {
		require.NoError(t, f.db.Create(n).Error)
	}

	purged, err := f.notifications.PurgeSeen(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)
	assert.EqualValues(t, 2, testutil.Count(t, f.db, &model.Notification{}))
}

func TestPurgeSeenDetachesReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	th := newThread(t, f)
	th.entity = testutil.CreateModel(t, f.db, th.owner.ID, "desk")

	added, err := f.likes.AddLike(ctx, th.entity.ID, th.alice.ID)
	require.NoError(t, err)
	require.True(t, added)
	c := th.comment(t, f, th.alice.ID, "nice grain", nil)
	require.NotNil(t, c.NotificationID)
	liked, err := f.likes.LikeComment(ctx, c.ID, th.bob.ID)
	require.NoError(t, err)
	require.True(t, liked)

	for _, recipient := range []uint64{th.owner.ID, th.alice.ID} {
		_, err = f.notifications.MarkSeen(ctx, recipient, model.NotificationFilter{})
		require.NoError(t, err)
	}

	purged, err := f.notifications.PurgeSeen(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 3, purged)
	assert.EqualValues(t, 0, testutil.Count(t, f.db, &model.Notification{}))

	like, err := f.likeRepo.GetLike(ctx, th.entity.ID, th.alice.ID)
	require.NoError(t, err)
	require.NotNil(t, like)
	assert.Nil(t, like.NotificationID)

	var stored model.Comment
	require.NoError(t, f.db.First(&stored, c.ID).Error)
	assert.Nil(t, stored.NotificationID)

	cl, err := f.likeRepo.GetCommentLike(ctx, c.ID, th.bob.ID)
	require.NoError(t, err)
	require.NotNil(t, cl)
	assert.Nil(t, cl.NotificationID)

	// 通知已清理后仍可正常取消点赞
	require.NoError(t, f.likes.RemoveLike(ctx, th.entity.ID, th.alice.ID))
	assert.EqualValues(t, 0, testutil.Count(t, f.db, &model.Like{}))
}

func TestListNotificationsDTO(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fan := testutil.CreateProfile(t, f.db, "fan")
	for range 3 {
		_, err := f.notifications.Create(ctx, service.CreateNotificationParams{
			ActionID: model.ActionNewMessage, NotifierID: fan.ID, RecipientID: 2,
		})
		require.NoError(t, err)
	}

	out, err := f.notifications.List(ctx, 2, &dto.NotificationListReq{PageReq: dto.PageReq{Page: 1, PageSize: 2}})
	require.NoError(t, err)
	assert.EqualValues(t, 3, out.Total)
	require.Len(t, out.List, 2)
	assert.Equal(t, "new_message", out.List[0].ActionID)
	assert.Equal(t, "fan", out.List[0].Notifier.Username)

	_, err = f.notifications.List(ctx, 2, &dto.NotificationListReq{ActionID: "nope"})
	assert.ErrorIs(t, err, service.ErrParamInvalid)
}
