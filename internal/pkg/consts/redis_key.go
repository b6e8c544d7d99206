package consts

const (
	EntityLikeCountKey    = "entity:like:count:"
	EntityCommentCountKey = "entity:comment:count:"
	CommentLikeCountKey   = "comment:like:count:"
	TokenDenyKey          = "token:deny:"
)

const (
	NotificationPurgeLock = "lock:notification:purge"
)
