package models

type Permission int

const (
	PermissionAdmin      Permission = 1
	PermissionCourseEdit Permission = 2
)

type Grant struct {
	ID         uint64     `gorm:"primaryKey"`
	UserID     uint64     `gorm:"index:uniq_user_permission,unique;priority:1"`
	Permission Permission `gorm:"index:uniq_user_permission,unique;priority:2"`
}
