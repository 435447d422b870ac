package models

import (
	"errors"

	"courseware/db"
	"courseware/utils"
)

type User struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt int64
	UpdatedAt int64
	Name      string  `gorm:"type:varchar(100)"`
	Email     string  `gorm:"type:varchar(150);index:uniq_email,unique"`
	Password  string  `gorm:"type:varchar(128)"`
	PassSalt  string  `gorm:"type:varchar(200)"`
	Grants    []Grant `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

const saltSize = 60

var ErrBadCredentials = errors.New("wrong email or password")

func UserCreate(name, email, plainTextPassword string) (u User, err error) {
	u.Email = email
	u.Name = name
	u.SetPassword(plainTextPassword)
	return u, db.Instance.Create(&u).Error
}

func (u *User) SetPassword(plainTextPassword string) {
	u.PassSalt = utils.RandSalt(saltSize)
	u.Password = utils.Sha512String(plainTextPassword + u.PassSalt)
}

func UserLogin(email, plainTextPassword string) (u User, err error) {
	result := db.Instance.Preload("Grants").First(&u, "email = ?", email)
	if result.Error != nil {
		return User{}, ErrBadCredentials
	}
	if u.Password != utils.Sha512String(plainTextPassword+u.PassSalt) {
		return User{}, ErrBadCredentials
	}
	return u, nil
}

func (u *User) GetPermissions() []int {
	permissions := []int{}
	for _, grant := range u.Grants {
		permissions = append(permissions, int(grant.Permission))
	}
	return permissions
}

func (u *User) HasPermission(required Permission) bool {
	for _, permission := range u.Grants {
		if permission.Permission == required {
			return true
		}
	}
	return false
}

func (u *User) HasPermissions(required []Permission) bool {
	for _, permission := range required {
		if !u.HasPermission(permission) {
			return false
		}
	}
	return true
}
