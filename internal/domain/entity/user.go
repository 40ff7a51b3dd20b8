package entity

import (
	"time"

	"github.com/yourusername/indcric-api/internal/pkg/timeutil"
)

// Роли пользователей
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User представляет профиль пользователя.
// ID совпадает с идентификатором внешнего провайдера аутентификации (claim sub).
type User struct {
	ID    string `gorm:"size:128;primaryKey" json:"id"`
	Name  string `gorm:"size:100;not null;default:''" json:"name"`
	Email string `gorm:"size:100;not null;default:'';index" json:"email"`
	Phone string `gorm:"size:20;not null;default:''" json:"phone"`
	// DOB может прийти как структурированная метка или как строка даты
	DOB               timeutil.Timestamp `gorm:"column:dob" json:"dob"`
	Gender            string             `gorm:"size:20;not null;default:''" json:"gender"`
	Occupation        string             `gorm:"size:100;not null;default:''" json:"occupation"`
	UPI               string             `gorm:"column:upi;size:320;not null;default:''" json:"upi"`
	FavoriteFormat    string             `gorm:"size:32;not null;default:''" json:"favorite_format"`
	FavoriteTeam      string             `gorm:"size:100;not null;default:''" json:"favorite_team"`
	FavoriteCricketer string             `gorm:"size:100;not null;default:''" json:"favorite_cricketer"`
	Role              string             `gorm:"size:20;not null;default:'user'" json:"-"` // "user" или "admin"
	LastPlayedAt      timeutil.Timestamp `gorm:"column:last_played_at" json:"last_played_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (User) TableName() string {
	return "users"
}

// IsAdmin проверяет роль администратора
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserWithLastQuiz строка списка пользователей в админке
type UserWithLastQuiz struct {
	User
	LastQuizFormat string             `json:"last_quiz_format"`
	LastQuizBrand  string             `json:"last_quiz_brand"`
	LastQuizAt     timeutil.Timestamp `json:"last_quiz_at"`
	AttemptsCount  int64              `json:"attempts_count"`
}

// UserMetrics агрегаты активности пользователей
type UserMetrics struct {
	TotalUsers        int64 `json:"total_users"`
	ActiveToday       int64 `json:"active_today"`
	ActiveLast7Days   int64 `json:"active_last_7_days"`
	ActiveLast30Days  int64 `json:"active_last_30_days"`
	TotalAttempts     int64 `json:"total_attempts"`
	PerfectAttempts   int64 `json:"perfect_attempts"`
	DisqualifiedCount int64 `json:"disqualified_count"`
}
