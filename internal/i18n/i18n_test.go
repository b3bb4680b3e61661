package i18n

import (
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestTranslator_English(t *testing.T) {
	tr := New("en_US")

	assert.Equal(t, language.English, tr.Tag())
	assert.Equal(t, "month", tr.MonthKey())
	assert.Equal(t, "category", tr.CategoryKey())
	assert.Equal(t, "Mar", tr.MonthShort(time.March))
	assert.Equal(t, "September", tr.MonthLong(time.September))
	assert.Equal(t, "Tickets", tr.T("label.tickets"))
}

func TestTranslator_Dutch(t *testing.T) {
	tr := New("nl_NL")

	assert.Equal(t, "maand", tr.MonthKey())
	assert.Equal(t, "categorie", tr.CategoryKey())
	assert.Equal(t, "mrt", tr.MonthShort(time.March))
	assert.Equal(t, "oktober", tr.MonthLong(time.October))
	assert.Equal(t, "Alle", tr.T("label.all"))
}

func TestTranslator_Fallback(t *testing.T) {
	t.Run("unsupported_locale", func(t *testing.T) {
		tr := New("ja_JP")
		assert.Equal(t, "month", tr.MonthKey())
	})

	t.Run("garbage_locale", func(t *testing.T) {
		tr := New("%%")
		assert.Equal(t, language.English, tr.Tag())
	})
}

func TestLoad(t *testing.T) {
	t.Run("no_catalogs", func(t *testing.T) {
		_, err := Load(fstest.MapFS{})
		assert.Error(t, err)
	})

	t.Run("bad_yaml", func(t *testing.T) {
		_, err := Load(fstest.MapFS{"locales/en.yaml": {Data: []byte("locale: [")}})
		assert.Error(t, err)
	})

	t.Run("missing_keys_fall_back_to_english", func(t *testing.T) {
		b, err := Load(fstest.MapFS{
			"locales/en.yaml": {Data: []byte("locale: en\nmessages:\n  label.all: All\n  query.month: month\n")},
			"locales/de.yaml": {Data: []byte("locale: de\nmessages:\n  query.month: monat\n")},
		})
		require.NoError(t, err)

		tr := b.Translator("de_DE")
		assert.Equal(t, "monat", tr.MonthKey())
		assert.Equal(t, "All", tr.T("label.all"))
	})
}
