package dto

import (
	"github.com/yourusername/indcric-api/internal/domain/entity"
	"github.com/yourusername/indcric-api/internal/pkg/timeutil"
)

// UpdateProfileRequest частичное изменение профиля.
// Отсутствующее в теле поле не меняется.
type UpdateProfileRequest struct {
	Name              *string             `json:"name" binding:"omitempty,text3,max=100"`
	Email             *string             `json:"email" binding:"omitempty,simple_email,max=100"`
	Phone             *string             `json:"phone" binding:"omitempty,phone10"`
	DOB               *timeutil.Timestamp `json:"dob"`
	Gender            *string             `json:"gender" binding:"omitempty,max=20"`
	Occupation        *string             `json:"occupation" binding:"omitempty,max=100"`
	UPI               *string             `json:"upi" binding:"omitempty,upi,max=320"`
	FavoriteFormat    *string             `json:"favorite_format" binding:"omitempty,max=32"`
	FavoriteTeam      *string             `json:"favorite_team" binding:"omitempty,max=100"`
	FavoriteCricketer *string             `json:"favorite_cricketer" binding:"omitempty,text3,max=100"`
}

// ProfileResponse профиль вместе с признаком заполненности
type ProfileResponse struct {
	*entity.User
	IsAdmin         bool `json:"is_admin"`
	ProfileComplete bool `json:"profile_complete"`
}

// UserListResponse страница списка пользователей
type UserListResponse struct {
	Users    []entity.UserWithLastQuiz `json:"users"`
	Total    int64                     `json:"total"`
	Page     int                       `json:"page"`
	PageSize int                       `json:"page_size"`
}
