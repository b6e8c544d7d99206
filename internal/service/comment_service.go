package service

import (
	"Atelier/internal/api/dto"
	"Atelier/internal/model"
	"Atelier/internal/pkg/consts"
	"Atelier/internal/pkg/database"
	"Atelier/internal/pkg/minio"
	"Atelier/internal/pkg/redis"
	"Atelier/internal/pkg/util"
	"Atelier/internal/repository"
	"context"
	log "log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const maxCommentLength = 2000

// CreateCommentParams ParentID 为空表示一级评论
type CreateCommentParams struct {
	EntityID     uint64
	EntitySource model.EntitySource
	UserID       uint64
	Text         string
	ParentID     *uint64
}

type CommentService interface {
	Create(ctx context.Context, params CreateCommentParams) (*model.Comment, error)
	// ListTopLevel 分页只作用于一级评论，每条附带全部回复（旧的在前）
	ListTopLevel(ctx context.Context, filter model.CommentFilter, sort model.Sort, page model.Page) ([]*model.CommentView, error)
	Update(ctx context.Context, id, userID uint64, text string) (*model.Comment, error)
	// Delete 删除匹配的评论及其通知、评论点赞，回复按配置保留或级联删除，返回删除的评论数
	Delete(ctx context.Context, filter model.CommentFilter) (int64, error)
	DeleteOwn(ctx context.Context, id, userID uint64) (int64, error)
	CommentCount(ctx context.Context, entityID uint64) (int64, error)

	List(ctx context.Context, req *dto.CommentListReq) ([]*dto.CommentDTO, error)
}

type commentServiceImpl struct {
	tx            database.Transactor
	commentRepo   repository.CommentRepo
	entityRepo    repository.EntityRepo
	likeRepo      repository.LikeRepo
	notifications NotificationService
	resolver      minio.URLResolver
	counter       redis.Counter
	opts          Options
}

func NewCommentService(
	tx database.Transactor,
	commentRepo repository.CommentRepo,
	entityRepo repository.EntityRepo,
	likeRepo repository.LikeRepo,
	notifications NotificationService,
	resolver minio.URLResolver,
	counter redis.Counter,
	opts Options,
) CommentService {
	return &commentServiceImpl{
		tx:            tx,
		commentRepo:   commentRepo,
		entityRepo:    entityRepo,
		likeRepo:      likeRepo,
		notifications: notifications,
		resolver:      resolver,
		counter:       counter,
		opts:          opts,
	}
}

func (s *commentServiceImpl) Create(ctx context.Context, params CreateCommentParams) (*model.Comment, error) {
	text, ok := util.TrimText(params.Text)
	if !ok || len([]rune(text)) > maxCommentLength || !params.EntitySource.Valid() {
		return nil, ErrParamInvalid
	}

	comment := &model.Comment{
		EntitySource: params.EntitySource,
		ParentID:     params.ParentID,
		UserID:       params.UserID,
		Text:         text,
	}
	// 父评论须在事务内加锁读取
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		entity, err := s.entityRepo.GetEntityBySource(ctx, params.EntitySource, params.EntityID)
		if err != nil {
			if database.IsNotFound(err) {
				return ErrEntityNotFound
			}
			return errors.Wrap(err, "get entity")
		}

		recipientID := entity.OwnerID
		if params.ParentID != nil {
			parent, err := s.commentRepo.LockCommentByID(ctx, *params.ParentID)
			if err != nil {
				if database.IsNotFound(err) {
					return ErrCommentNotFound
				}
				return errors.Wrap(err, "get parent comment")
			}
			if parent.EntityID != entity.ID || parent.EntitySource != entity.Source {
				return ErrCommentParentMismatch
			}
			if parent.IsReply() {
				return ErrCommentTooDeep
			}
			recipientID = parent.UserID
		}

		n, err := s.notifications.Notify(ctx, CreateNotificationParams{
			ActionID:    model.ActionNewComment,
			NotifierID:  params.UserID,
			RecipientID: recipientID,
			Subject:     entity,
		})
		if err != nil {
			return err
		}
		if n != nil {
			comment.NotificationID = &n.ID
		}
		comment.EntityID = entity.ID
		comment.EntitySource = entity.Source
		return errors.Wrap(s.commentRepo.CreateComment(ctx, comment), "create comment")
	})
	if err != nil {
		return nil, err
	}
	database.AfterCommit(ctx, func() {
		bumpCount(ctx, s.counter, countKey(consts.EntityCommentCountKey, comment.EntityID), 1)
	})
	return comment, nil
}

func (s *commentServiceImpl) ListTopLevel(ctx context.Context, filter model.CommentFilter, sort model.Sort, page model.Page) ([]*model.CommentView, error) {
	filter.ParentID = nil
	top, err := s.commentRepo.ListTopLevel(ctx, filter, sort, page)
	if err != nil {
		return nil, errors.Wrap(err, "list comments")
	}
	if len(top) == 0 {
		return top, nil
	}

	ids := make([]uint64, 0, len(top))
	for _, c := range top {
		ids = append(ids, c.ID)
	}
	replies, err := s.commentRepo.ListReplies(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "list replies")
	}

	grouped := make(map[uint64][]*model.CommentView, len(top))
	for _, r := range replies {
		if r.ParentID == nil {
			continue
		}
		grouped[*r.ParentID] = append(grouped[*r.ParentID], r)
	}
	for _, c := range top {
		c.Replies = grouped[c.ID]
		if c.Replies == nil {
			c.Replies = []*model.CommentView{}
		}
	}
	return top, nil
}

func (s *commentServiceImpl) Update(ctx context.Context, id, userID uint64, text string) (*model.Comment, error) {
	text, ok := util.TrimText(text)
	if !ok || len([]rune(text)) > maxCommentLength {
		return nil, ErrParamInvalid
	}
	comment, err := s.getComment(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, UnauthorizedError
	}

	now := time.Now()
	if err = s.commentRepo.UpdateComment(ctx, id, map[string]any{"text": text, "updated_at": now}); err != nil {
		return nil, errors.Wrap(err, "update comment")
	}
	comment.Text = text
	comment.UpdatedAt = now
	return comment, nil
}

func (s *commentServiceImpl) Delete(ctx context.Context, filter model.CommentFilter) (int64, error) {
	if filter.IsEmpty() {
		return 0, ErrParamInvalid
	}

	var (
		deleted   int64
		entityIDs []uint64
		ids       []uint64
	)
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		comments, err := s.commentRepo.FindComments(ctx, filter)
		if err != nil {
			return errors.Wrap(err, "find comments")
		}
		if len(comments) == 0 {
			return nil
		}

		if s.opts.cascadeReplies() {
			parentIDs := make([]uint64, 0, len(comments))
			for _, c := range comments {
				if !c.IsReply() {
					parentIDs = append(parentIDs, c.ID)
				}
			}
			replies, err := s.commentRepo.FindRepliesByParentIDs(ctx, parentIDs)
			if err != nil {
				return errors.Wrap(err, "find replies")
			}
			comments = append(comments, replies...)
		}

		var notificationIDs []uint64
		for _, c := range comments {
			ids = append(ids, c.ID)
			entityIDs = append(entityIDs, c.EntityID)
			if c.NotificationID != nil {
				notificationIDs = append(notificationIDs, *c.NotificationID)
			}
		}
		ids = util.Dedup(ids)

		likes, err := s.likeRepo.ListCommentLikesByCommentIDs(ctx, ids)
		if err != nil {
			return errors.Wrap(err, "list comment likes")
		}
		for _, l := range likes {
			if l.NotificationID != nil {
				notificationIDs = append(notificationIDs, *l.NotificationID)
			}
		}
		if _, err = s.likeRepo.DeleteCommentLikesByCommentIDs(ctx, ids); err != nil {
			return errors.Wrap(err, "delete comment likes")
		}
		if len(notificationIDs) > 0 {
			if _, err = s.notifications.DeleteBy(ctx, model.NotificationFilter{IDs: util.Dedup(notificationIDs)}); err != nil {
				return err
			}
		}
		deleted, err = s.commentRepo.DeleteCommentsByIDs(ctx, ids)
		return errors.Wrap(err, "delete comments")
	})
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		keys := make([]string, 0, len(ids)+len(entityIDs))
		for _, id := range util.Dedup(entityIDs) {
			keys = append(keys, countKey(consts.EntityCommentCountKey, id))
		}
		for _, id := range ids {
			keys = append(keys, countKey(consts.CommentLikeCountKey, id))
		}
		// 被外层事务复用时，等外层提交后再清缓存
		database.AfterCommit(ctx, func() { dropCounts(ctx, s.counter, keys...) })
		log.InfoContext(ctx, "comments deleted", "count", deleted, "cascade", s.opts.cascadeReplies())
	}
	return deleted, nil
}

func (s *commentServiceImpl) DeleteOwn(ctx context.Context, id, userID uint64) (int64, error) {
	comment, err := s.getComment(ctx, id)
	if err != nil {
		return 0, err
	}
	if comment.UserID != userID {
		return 0, UnauthorizedError
	}
	return s.Delete(ctx, model.CommentFilter{ID: &id})
}

func (s *commentServiceImpl) CommentCount(ctx context.Context, entityID uint64) (int64, error) {
	return cachedCount(ctx, s.counter, countKey(consts.EntityCommentCountKey, entityID), s.opts.CounterTTL,
		func(ctx context.Context) (int64, error) {
			count, err := s.commentRepo.GetCommentCount(ctx, entityID)
			return count, errors.Wrap(err, "count comments")
		})
}

func (s *commentServiceImpl) List(ctx context.Context, req *dto.CommentListReq) ([]*dto.CommentDTO, error) {
	var filter model.CommentFilter
	if req.EntityID != 0 {
		filter.EntityID = &req.EntityID
	}
	if req.UserID != 0 {
		filter.UserID = &req.UserID
	}
	limit, offset := req.LimitOffset()
	sort := model.Sort{OrderBy: req.OrderBy, Desc: !strings.EqualFold(req.Order, "asc")}

	views, err := s.ListTopLevel(ctx, filter, sort, model.Page{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	list := make([]*dto.CommentDTO, 0, len(views))
	for _, v := range views {
		list = append(list, s.toCommentDTO(ctx, v))
	}
	return list, nil
}

func (s *commentServiceImpl) toCommentDTO(ctx context.Context, v *model.CommentView) *dto.CommentDTO {
	user := toProfileDTO(v.User)
	user.AvatarURL = s.resolver.Resolve(ctx, user.AvatarURL)
	item := &dto.CommentDTO{
		ID:           v.ID,
		EntityID:     v.EntityID,
		EntitySource: string(v.EntitySource),
		ParentID:     v.ParentID,
		UserID:       v.UserID,
		Text:         v.Text,
		User:         user,
		CreatedAt:    util.FormatTime(v.CreatedAt),
		UpdatedAt:    util.FormatTime(v.UpdatedAt),
		Replies:      make([]*dto.CommentDTO, 0, len(v.Replies)),
	}
	for _, r := range v.Replies {
		item.Replies = append(item.Replies, s.toCommentDTO(ctx, r))
	}
	return item
}

func (s *commentServiceImpl) getComment(ctx context.Context, id uint64) (*model.Comment, error) {
	comment, err := s.commentRepo.GetCommentByID(ctx, id)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrCommentNotFound
		}
		return nil, errors.Wrap(err, "get comment")
	}
	return comment, nil
}
