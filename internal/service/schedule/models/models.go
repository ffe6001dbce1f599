package models

import (
	"time"

	"github.com/avdmitr/salon-booking-service/internal/domain"
)

// Request модели

// UpdateDayRequest запрос на обновление строки недельного шаблона
type UpdateDayRequest struct {
	DayOfWeek int    `json:"dayOfWeek"` // 0 = понедельник ... 6 = воскресенье
	StartTime string `json:"startTime"` // "10:00"
	EndTime   string `json:"endTime"`   // "20:00"
	IsWorking bool   `json:"isWorking"`
}

// Response модели

// DayResponse строка недельного шаблона
type DayResponse struct {
	DayOfWeek int    `json:"dayOfWeek"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	IsWorking bool   `json:"isWorking"`
	IsDefault bool   `json:"isDefault"` // Строка не сохранена в БД, действует дефолт
}

// WeekResponse недельный шаблон целиком
type WeekResponse struct {
	Days []DayResponse `json:"days"`
}

// BlockedSlotResponse заблокированный слот
type BlockedSlotResponse struct {
	ID              int64   `json:"id"`
	Date            string  `json:"date"`      // "2026-09-15"
	StartTime       string  `json:"startTime"` // "12:00"
	DurationMinutes int     `json:"durationMinutes"`
	Reason          *string `json:"reason,omitempty"`
}

// BlockedSlotListResponse список заблокированных слотов
type BlockedSlotListResponse struct {
	Date         string                `json:"date"`
	BlockedSlots []BlockedSlotResponse `json:"blockedSlots"`
}

// Методы конвертации

// FromDomainEntry конвертирует строку шаблона в DTO
func FromDomainEntry(e *domain.ScheduleEntry, isDefault bool) DayResponse {
	return DayResponse{
		DayOfWeek: e.DayOfWeek,
		StartTime: e.StartTime.String(),
		EndTime:   e.EndTime.String(),
		IsWorking: e.IsWorking,
		IsDefault: isDefault,
	}
}

// FromDomainWeek собирает полную неделю: сохраненные строки дополняются дефолтными
func FromDomainWeek(entries []*domain.ScheduleEntry) *WeekResponse {
	stored := make(map[int]*domain.ScheduleEntry, len(entries))
	for _, e := range entries {
		stored[e.DayOfWeek] = e
	}

	resp := &WeekResponse{Days: make([]DayResponse, 0, 7)}
	for day := 0; day < 7; day++ {
		if e, ok := stored[day]; ok {
			resp.Days = append(resp.Days, FromDomainEntry(e, false))
			continue
		}
		def := domain.DefaultScheduleEntry(day)
		resp.Days = append(resp.Days, FromDomainEntry(&def, true))
	}

	return resp
}

// FromDomainBlockedSlot конвертирует блокировку в DTO
func FromDomainBlockedSlot(b *domain.BlockedSlot) BlockedSlotResponse {
	return BlockedSlotResponse{
		ID:              b.ID,
		Date:            b.Date.Format(domain.DateFormat),
		StartTime:       b.StartTime.String(),
		DurationMinutes: b.DurationMinutes,
		Reason:          b.Reason,
	}
}

// FromDomainBlockedSlotList конвертирует список блокировок в DTO
func FromDomainBlockedSlotList(date time.Time, blocked []*domain.BlockedSlot) *BlockedSlotListResponse {
	resp := &BlockedSlotListResponse{
		Date:         date.Format(domain.DateFormat),
		BlockedSlots: make([]BlockedSlotResponse, 0, len(blocked)),
	}
	for _, b := range blocked {
		resp.BlockedSlots = append(resp.BlockedSlots, FromDomainBlockedSlot(b))
	}
	return resp
}
