package service

import (
	"Atelier/internal/api/dto"
	"Atelier/internal/model"
	"Atelier/internal/pkg/database"
	"Atelier/internal/pkg/minio"
	"Atelier/internal/pkg/util"
	"Atelier/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// CreateNotificationParams Subject 为空表示通知不关联具体内容
type CreateNotificationParams struct {
	ActionID    model.Action
	NotifierID  uint64
	RecipientID uint64
	Subject     *model.Entity
	Message     *string
}

type NotificationService interface {
	Create(ctx context.Context, params CreateNotificationParams) (*model.Notification, error)
	// Notify 与 Create 相同，但按配置跳过自己通知自己，跳过时返回 nil, nil
	Notify(ctx context.Context, params CreateNotificationParams) (*model.Notification, error)
	ListForRecipient(ctx context.Context, recipientID uint64, filter model.NotificationFilter, page model.Page) ([]*model.NotificationView, error)
	Count(ctx context.Context, recipientID uint64, filter model.NotificationFilter) (int64, error)
	UnreadCount(ctx context.Context, recipientID uint64) (int64, error)
	MarkSeen(ctx context.Context, recipientID uint64, filter model.NotificationFilter) (int64, error)
	DeleteByID(ctx context.Context, id uint64) (int64, error)
	DeleteBy(ctx context.Context, filter model.NotificationFilter) (int64, error)
	DeleteForRecipient(ctx context.Context, recipientID, id uint64) error
	PurgeSeen(ctx context.Context, before time.Time) (int64, error)

	List(ctx context.Context, recipientID uint64, req *dto.NotificationListReq) (*dto.NotificationListDTO, error)
}

type notificationServiceImpl struct {
	notificationRepo repository.NotificationRepo
	resolver         minio.URLResolver
	opts             Options
}

func NewNotificationService(notificationRepo repository.NotificationRepo, resolver minio.URLResolver, opts Options) NotificationService {
	return &notificationServiceImpl{
		notificationRepo: notificationRepo,
		resolver:         resolver,
		opts:             opts,
	}
}

func (s *notificationServiceImpl) Create(ctx context.Context, params CreateNotificationParams) (*model.Notification, error) {
	if !params.ActionID.Valid() || params.RecipientID == 0 {
		return nil, ErrParamInvalid
	}
	n := &model.Notification{
		ActionID:    params.ActionID,
		NotifierID:  params.NotifierID,
		RecipientID: params.RecipientID,
		Message:     params.Message,
	}
	if params.Subject != nil {
		n.SubjectOf(params.Subject)
	}
	if err := s.notificationRepo.CreateNotification(ctx, n); err != nil {
		return nil, errors.Wrap(err, "create notification")
	}
	return n, nil
}

func (s *notificationServiceImpl) Notify(ctx context.Context, params CreateNotificationParams) (*model.Notification, error) {
	if s.opts.SuppressSelfNotify && params.NotifierID == params.RecipientID {
		log.DebugContext(ctx, "self notification suppressed", "action", params.ActionID, "user_id", params.NotifierID)
		return nil, nil
	}
	return s.Create(ctx, params)
}

func (s *notificationServiceImpl) ListForRecipient(ctx context.Context, recipientID uint64, filter model.NotificationFilter, page model.Page) ([]*model.NotificationView, error) {
	filter.RecipientID = &recipientID
	views, err := s.notificationRepo.ListNotifications(ctx, filter, page)
	if err != nil {
		return nil, errors.Wrap(err, "list notifications")
	}
	for _, v := range views {
		s.resolveView(ctx, v)
	}
	return views, nil
}

func (s *notificationServiceImpl) resolveView(ctx context.Context, v *model.NotificationView) {
	src := ""
	if v.Notifier.ImageSrc != nil {
		src = *v.Notifier.ImageSrc
	}
	v.Notifier.ImageSrc = util.Ptr(s.resolver.Resolve(ctx, src))
	for _, subject := range []*model.SubjectSummary{v.Model, v.Interior} {
		if subject != nil && subject.Cover != nil {
			subject.Cover = util.Ptr(s.resolver.Resolve(ctx, *subject.Cover))
		}
	}
}

func (s *notificationServiceImpl) Count(ctx context.Context, recipientID uint64, filter model.NotificationFilter) (int64, error) {
	filter.RecipientID = &recipientID
	count, err := s.notificationRepo.CountNotifications(ctx, filter)
	return count, errors.Wrap(err, "count notifications")
}

func (s *notificationServiceImpl) UnreadCount(ctx context.Context, recipientID uint64) (int64, error) {
	return s.Count(ctx, recipientID, model.NotificationFilter{Seen: util.Ptr(false)})
}

// MarkSeen 只更新未读的通知，返回实际被标记的数量
func (s *notificationServiceImpl) MarkSeen(ctx context.Context, recipientID uint64, filter model.NotificationFilter) (int64, error) {
	filter.RecipientID = &recipientID
	filter.Seen = util.Ptr(false)
	affected, err := s.notificationRepo.UpdateNotifications(ctx, filter, map[string]any{"seen": true})
	return affected, errors.Wrap(err, "mark notifications seen")
}

func (s *notificationServiceImpl) DeleteByID(ctx context.Context, id uint64) (int64, error) {
	affected, err := s.notificationRepo.DeleteNotificationByID(ctx, id)
	return affected, errors.Wrap(err, "delete notification")
}

// DeleteBy 空过滤条件会删除全部通知，直接拒绝
func (s *notificationServiceImpl) DeleteBy(ctx context.Context, filter model.NotificationFilter) (int64, error) {
	if filter.IsEmpty() {
		return 0, ErrParamInvalid
	}
	affected, err := s.notificationRepo.DeleteNotifications(ctx, filter)
	return affected, errors.Wrap(err, "delete notifications")
}

func (s *notificationServiceImpl) DeleteForRecipient(ctx context.Context, recipientID, id uint64) error {
	n, err := s.notificationRepo.GetNotificationByID(ctx, id)
	if err != nil {
		if database.IsNotFound(err) {
			return ErrNotificationNotFound
		}
		return errors.Wrap(err, "get notification")
	}
	if n.RecipientID != recipientID {
		return UnauthorizedError
	}
	_, err = s.DeleteByID(ctx, id)
	return err
}

func (s *notificationServiceImpl) PurgeSeen(ctx context.Context, before time.Time) (int64, error) {
	affected, err := s.notificationRepo.DeleteSeenBefore(ctx, before)
	return affected, errors.Wrap(err, "purge seen notifications")
}

func (s *notificationServiceImpl) List(ctx context.Context, recipientID uint64, req *dto.NotificationListReq) (*dto.NotificationListDTO, error) {
	filter := model.NotificationFilter{Seen: req.Seen}
	if req.ActionID != "" {
		action := model.Action(req.ActionID)
		if !action.Valid() {
			return nil, ErrParamInvalid
		}
		filter.ActionID = &action
	}
	limit, offset := req.LimitOffset()

	var (
		views []*model.NotificationView
		total int64
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		views, err = s.ListForRecipient(gCtx, recipientID, filter, model.Page{Limit: limit, Offset: offset})
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.Count(gCtx, recipientID, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	list := make([]*dto.NotificationDTO, 0, len(views))
	for _, v := range views {
		list = append(list, toNotificationDTO(v))
	}
	return &dto.NotificationListDTO{List: list, Total: total}, nil
}

func toNotificationDTO(v *model.NotificationView) *dto.NotificationDTO {
	return &dto.NotificationDTO{
		ID:          v.ID,
		ActionID:    string(v.ActionID),
		Action:      dto.NotificationActionDTO{Name: string(v.Action.Name), Description: v.Action.Description},
		Notifier:    toProfileDTO(v.Notifier),
		RecipientID: v.RecipientID,
		Model:       toSubjectDTO(v.Model),
		Interior:    toSubjectDTO(v.Interior),
		Seen:        v.Seen,
		Message:     v.Message,
		CreatedAt:   util.FormatTime(v.CreatedAt),
	}
}

func toSubjectDTO(s *model.SubjectSummary) *dto.NotificationSubjectDTO {
	if s == nil {
		return nil
	}
	out := &dto.NotificationSubjectDTO{ID: s.ID, Name: s.Name, Slug: s.Slug}
	if s.Cover != nil {
		out.CoverURL = *s.Cover
	}
	return out
}

func toProfileDTO(p model.ProfileSummary) dto.ProfileDTO {
	out := dto.ProfileDTO{ID: p.ID, FullName: p.FullName, Username: p.Username}
	if p.ImageSrc != nil {
		out.AvatarURL = *p.ImageSrc
	}
	return out
}
