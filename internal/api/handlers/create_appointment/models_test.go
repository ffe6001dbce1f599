package create_appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Дата запроса разбирается в серверной таймзоне: полночь распарсенной даты
// должна совпадать с локальной полночью, иначе "сегодня" на серверах
// восточнее UTC считалось бы прошедшим днем
func TestToUseCaseRequest_DateParsedInLocalTime(t *testing.T) {
	req := &CreateAppointmentRequest{
		ClientName: "Анна Иванова",
		Phone:      "+79161234567",
		ServiceID:  5,
		Date:       "2026-09-15",
		StartTime:  "12:00",
	}

	ucReq, err := req.ToUseCaseRequest(false)
	require.NoError(t, err)

	localMidnight := time.Date(2026, 9, 15, 0, 0, 0, 0, time.Local)
	assert.True(t, ucReq.Date.Equal(localMidnight))
	assert.Equal(t, time.Local, ucReq.Date.Location())
	assert.Equal(t, "12:00", ucReq.StartTime.String())
	assert.False(t, ucReq.ByAdmin)
}

func TestToUseCaseRequest_InvalidDate(t *testing.T) {
	req := &CreateAppointmentRequest{
		ClientName: "Анна Иванова",
		Phone:      "+79161234567",
		ServiceID:  5,
		Date:       "15.09.2026",
		StartTime:  "12:00",
	}

	_, err := req.ToUseCaseRequest(false)
	assert.Error(t, err)
}
