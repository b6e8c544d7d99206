package consts

const (
	DefaultAvatarURL = "default_avatar.png"
)

// gin.Context 与 context 中的键
const (
	UserIDKey = "user_id"
	RolesKey  = "roles"
)

const (
	JobTracePrefix      = "job"
	ConsumerTracePrefix = "consumer"
)
