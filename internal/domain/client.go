package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// ErrInvalidPhone возвращается, когда номер телефона не приводится к каноничному виду
var ErrInvalidPhone = errors.New("domain: invalid phone number")

// canonicalPhone каноничный вид номера: +7 и 10 цифр
var canonicalPhone = regexp.MustCompile(`^\+7\d{10}$`)

// Client клиент салона
// Создается лениво при первой записи, ищется по телефону при повторных
type Client struct {
	ID               int64
	Name             string
	Phone            string // каноничный вид +7XXXXXXXXXX
	Email            *string
	TelegramID       *int64
	TelegramUsername *string
	Notes            *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NormalizePhone приводит номер к каноничному виду +7XXXXXXXXXX
// Принимает варианты с пробелами, скобками и дефисами, с ведущей 8, 7 или без кода
func NormalizePhone(raw string) (string, error) {
	phone := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(raw))

	if !strings.HasPrefix(phone, "+") {
		switch {
		case strings.HasPrefix(phone, "8"):
			phone = "+7" + phone[1:]
		case strings.HasPrefix(phone, "7"):
			phone = "+" + phone
		default:
			phone = "+7" + phone
		}
	}

	if !canonicalPhone.MatchString(phone) {
		return "", ErrInvalidPhone
	}
	return phone, nil
}
