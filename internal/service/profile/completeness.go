// Package profile проверяет заполненность профиля перед допуском к викторине.
package profile

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/indcric-api/internal/domain/entity"
	"github.com/yourusername/indcric-api/internal/pkg/timeutil"
)

// Имена обязательных полей в том виде, в каком их видит клиент
const (
	FieldName              = "name"
	FieldEmail             = "email"
	FieldPhone             = "phone"
	FieldDOB               = "dob"
	FieldGender            = "gender"
	FieldOccupation        = "occupation"
	FieldUPI               = "upi"
	FieldFavoriteFormat    = "favorite_format"
	FieldFavoriteTeam      = "favorite_team"
	FieldFavoriteCricketer = "favorite_cricketer"
)

// Теги валидатора для DTO профиля
const (
	TagUPI        = "upi"
	TagPhone      = "phone10"
	TagSimpleMail = "simple_email"
	TagMinText3   = "text3"
)

const minTextLen = 3

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^\d{10,}$`)
	upiRe   = regexp.MustCompile(`^[a-zA-Z0-9.\-_]{2,256}@[a-zA-Z]{2,64}$`)
)

type fieldRule struct {
	name  string
	valid func(u *entity.User) bool
}

// Порядок правил определяет порядок MissingFields
var rules = []fieldRule{
	{FieldName, func(u *entity.User) bool { return ValidText(u.Name) }},
	{FieldEmail, func(u *entity.User) bool { return ValidEmail(u.Email) }},
	{FieldPhone, func(u *entity.User) bool { return ValidPhone(u.Phone) }},
	{FieldDOB, func(u *entity.User) bool { return ValidDOB(u.DOB) }},
	{FieldGender, func(u *entity.User) bool { return nonEmpty(u.Gender) }},
	{FieldOccupation, func(u *entity.User) bool { return ValidText(u.Occupation) }},
	{FieldUPI, func(u *entity.User) bool { return ValidUPI(u.UPI) }},
	{FieldFavoriteFormat, func(u *entity.User) bool { return nonEmpty(u.FavoriteFormat) }},
	{FieldFavoriteTeam, func(u *entity.User) bool { return nonEmpty(u.FavoriteTeam) }},
	{FieldFavoriteCricketer, func(u *entity.User) bool { return ValidText(u.FavoriteCricketer) }},
}

// IsComplete сообщает, что все десять обязательных полей заполнены корректно.
// nil профиль считается незаполненным.
func IsComplete(u *entity.User) bool {
	if u == nil {
		return false
	}
	for _, r := range rules {
		if !r.valid(u) {
			return false
		}
	}
	return true
}

// MissingFields возвращает имена полей, не прошедших проверку
func MissingFields(u *entity.User) []string {
	missing := []string{}
	if u == nil {
		for _, r := range rules {
			missing = append(missing, r.name)
		}
		return missing
	}
	for _, r := range rules {
		if !r.valid(u) {
			missing = append(missing, r.name)
		}
	}
	return missing
}

// ValidText не меньше трёх символов после обрезки пробелов
func ValidText(s string) bool {
	return len([]rune(strings.TrimSpace(s))) >= minTextLen
}

// ValidEmail форма local@domain.tld
func ValidEmail(s string) bool {
	return emailRe.MatchString(strings.TrimSpace(s))
}

// ValidPhone только цифры, не меньше десяти
func ValidPhone(s string) bool {
	return phoneRe.MatchString(strings.TrimSpace(s))
}

// ValidUPI форма handle@provider
func ValidUPI(s string) bool {
	return upiRe.MatchString(strings.TrimSpace(s))
}

// ValidDOB дата рождения разобрана и не нулевая
func ValidDOB(ts timeutil.Timestamp) bool {
	return ts.Valid && !ts.Time.IsZero()
}

func nonEmpty(s string) bool {
	return strings.TrimSpace(s) != ""
}

// RegisterValidations добавляет правила профиля в валидатор (например, движок gin binding)
func RegisterValidations(v *validator.Validate) error {
	custom := map[string]func(string) bool{
		TagUPI:        ValidUPI,
		TagPhone:      ValidPhone,
		TagSimpleMail: ValidEmail,
		TagMinText3:   ValidText,
	}
	for tag, fn := range custom {
		check := fn
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return check(fl.Field().String())
		}); err != nil {
			return err
		}
	}
	return nil
}
