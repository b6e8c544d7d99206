package model

// Profile 用户公开资料，ID 与认证服务的用户 ID 一致
type Profile struct {
	ID       uint64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	FullName string  `gorm:"type:varchar(128);not null;default:''" json:"fullName"`
	Username string  `gorm:"type:varchar(64);not null;uniqueIndex:uk_profiles_username" json:"username"`
	ImageSrc *string `gorm:"type:varchar(512)" json:"imageSrc"`
}

func (Profile) TableName() string {
	return "profiles"
}
