package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"каноничный вид", "+79161234567", "+79161234567"},
		{"ведущая восьмерка", "89161234567", "+79161234567"},
		{"ведущая семерка без плюса", "79161234567", "+79161234567"},
		{"без кода страны", "9161234567", "+79161234567"},
		{"пробелы и дефисы", "8 916 123-45-67", "+79161234567"},
		{"скобки", "+7 (916) 123-45-67", "+79161234567"},
		{"пробелы по краям", "  +79161234567  ", "+79161234567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizePhone_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"пустая строка", ""},
		{"слишком короткий", "+7916123"},
		{"слишком длинный", "+791612345678"},
		{"буквы", "+7916abcdefg"},
		{"иностранный код", "+19161234567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizePhone(tt.raw)
			assert.ErrorIs(t, err, ErrInvalidPhone)
		})
	}
}
