package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestT(t *testing.T) {
	assert.Equal(t, "Stock cannot be negative!", T("en", "StockNegative"))
	assert.Equal(t, "Le stock ne peut pas être négatif !", T("fr", "StockNegative"))

	// unknown languages and keys fall back
	assert.Equal(t, T("en", "StockNegative"), T("de", "StockNegative"))
	assert.Equal(t, "NoSuchKey", T("fr", "NoSuchKey"))
}

func TestTf(t *testing.T) {
	assert.Equal(t, "Welcome back, admin! Logged in as admin.", Tf("en", "WelcomeBack", "admin", "admin"))
	assert.Equal(t, "Goodbye, vendor1!", Tf("en", "Goodbye", "vendor1"))
}

func TestLocalesHaveSameKeys(t *testing.T) {
	for key := range translations["en"] {
		_, ok := translations["fr"][key]
		assert.True(t, ok, "fr is missing %s", key)
	}
	assert.Len(t, translations["fr"], len(translations["en"]))
	assert.ElementsMatch(t, []string{"en", "fr"}, Languages())
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", "en"},
		{"fr-CH, fr;q=0.9, en;q=0.8", "fr"},
		{"de-DE, fr;q=0.8", "fr"},
		{"FR", "fr"},
		{"es, de", "en"},
		{"*", "en"},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/", nil)
		if tt.header != "" {
			r.Header.Set("Accept-Language", tt.header)
		}
		assert.Equal(t, tt.want, DetectLanguage(r), tt.header)
	}
}
