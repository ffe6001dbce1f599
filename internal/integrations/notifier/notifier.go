package notifier

import (
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/avdmitr/salon-booking-service/internal/domain"
)

// sendTimeout ограничивает HTTP-запрос к Telegram API:
// недоступный Telegram не должен держать горутину доставки вечно
const sendTimeout = 10 * time.Second

// Notifier отправляет уведомления о событиях записей в Telegram
// Доставка best-effort и асинхронная: Notify возвращается сразу,
// ошибки логируются и никогда не возвращаются вызывающему —
// бронирование не зависит от доступности Telegram
type Notifier struct {
	send        func(msg tgbotapi.Chattable) (tgbotapi.Message, error)
	adminChatID int64
	log         Logger
}

// New создает новый экземпляр Notifier
// Пустой токен возвращает выключенный notifier: все вызовы становятся no-op
func New(botToken string, adminChatID int64, log Logger) (*Notifier, error) {
	if botToken == "" {
		log.Warn("Telegram notifications disabled: bot token is empty")
		return &Notifier{adminChatID: adminChatID, log: log}, nil
	}

	client := &http.Client{Timeout: sendTimeout}
	bot, err := tgbotapi.NewBotAPIWithClient(botToken, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("notifier: failed to create bot: %w", err)
	}

	log.Info("Telegram notifications enabled (bot=%s)", bot.Self.UserName)
	return &Notifier{send: bot.Send, adminChatID: adminChatID, log: log}, nil
}

// Notify ставит уведомление на отправку и сразу возвращается
func (n *Notifier) Notify(event domain.Event) {
	if n.send == nil {
		return
	}

	text := n.formatMessage(event)
	if text == "" {
		n.log.Warn("Skipping notification: unknown event type %q", event.Type)
		return
	}

	go n.deliver(event, text)
}

func (n *Notifier) deliver(event domain.Event, text string) {
	msg := tgbotapi.NewMessage(n.adminChatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	if _, err := n.send(msg); err != nil {
		n.log.Error("Failed to send telegram notification (event=%s, appointment_id=%d): %v",
			event.Type, event.Appointment.ID, err)
		return
	}

	n.log.Info("Telegram notification sent (event=%s, appointment_id=%d)",
		event.Type, event.Appointment.ID)
}

func (n *Notifier) formatMessage(event domain.Event) string {
	apt := event.Appointment

	var header string
	switch event.Type {
	case domain.EventCreated:
		header = "🆕 Новая запись"
	case domain.EventConfirmed:
		header = "✅ Запись подтверждена"
	case domain.EventCancelled:
		header = "❌ Запись отменена"
	case domain.EventRescheduled:
		header = "🔁 Запись перенесена"
	case domain.EventReminder:
		header = "⏰ Напоминание о записи"
	default:
		return ""
	}

	text := fmt.Sprintf("<b>%s</b>\n📅 %s в %s",
		header, apt.Date.Format("02.01.2006"), apt.StartTime)

	if event.Service != nil {
		text += fmt.Sprintf("\n💇 %s (%d мин, %.0f ₽)",
			event.Service.Name, apt.DurationMinutes, apt.TotalPrice)
	}
	if event.Client != nil {
		text += fmt.Sprintf("\n👤 %s, %s", event.Client.Name, event.Client.Phone)
	}
	if apt.Notes != nil && *apt.Notes != "" {
		text += fmt.Sprintf("\n💬 %s", *apt.Notes)
	}

	return text
}
