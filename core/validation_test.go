package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRecord(t *testing.T) {
	t.Run("valid record", func(t *testing.T) {
		record := &Record{Id: 1, Text: "City Hospital in Jaipur"}
		assert.NoError(t, ValidateRecord(record))
	})

	t.Run("nil record", func(t *testing.T) {
		require.ErrorIs(t, ValidateRecord(nil), ErrInvalidRecord)
	})

	t.Run("missing id", func(t *testing.T) {
		err := ValidateRecord(&Record{Text: "some text"})
		require.ErrorIs(t, err, ErrInvalidRecord)
		require.ErrorIs(t, err, ErrMissingID)
	})

	t.Run("empty text", func(t *testing.T) {
		err := ValidateRecord(&Record{Id: 1})
		require.ErrorIs(t, err, ErrEmptyText)
	})

	t.Run("whitespace-only text", func(t *testing.T) {
		err := ValidateRecord(&Record{Id: 1, Text: "  \n\t "})
		require.ErrorIs(t, err, ErrEmptyText)
	})

	t.Run("empty vector is allowed", func(t *testing.T) {
		record := &Record{Id: 1, Text: "not yet embedded"}
		assert.NoError(t, ValidateRecord(record))
	})
}

func TestIDFromContent(t *testing.T) {
	a := IDFromContent("City Hospital|Jaipur|12 MG Road")
	b := IDFromContent("City Hospital|Jaipur|12 MG Road")
	c := IDFromContent("City Hospital|Mumbai|12 MG Road")

	assert.Equal(t, a, b, "identical content must hash to the same id")
	assert.NotEqual(t, a, c)
	assert.NotZero(t, a)
}
