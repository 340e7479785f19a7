package tmpl

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommas(t *testing.T) {
	for in, want := range map[int]string{
		0:       "0",
		999:     "999",
		1000:    "1,000",
		8543:    "8,543",
		10000:   "10,000",
		1234567: "1,234,567",
		-2500:   "-2,500",
	} {
		assert.Equal(t, want, Commas(in), "%d", in)
	}
}

func TestHoursMinutes(t *testing.T) {
	assert.Equal(t, "2h 15m", HoursMinutes(135))
	assert.Equal(t, "0h 45m", HoursMinutes(45))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Overview", Capitalize("overview"))
	assert.Equal(t, "", Capitalize(""))
	assert.Equal(t, "Évian", Capitalize("évian"))
	assert.Equal(t, "McDonald", Capitalize("mcDonald"))
}

func TestLoadParsesEveryPage(t *testing.T) {
	tp, err := Load()
	require.NoError(t, err)
	for _, name := range []string{"overview.html", "activity.html", "meals.html", "insights.html"} {
		assert.Contains(t, tp.pages, name)
	}
	assert.NotContains(t, tp.pages, "layout.html")

	err = tp.ExecuteTemplate(&bytes.Buffer{}, "nope.html", nil)
	assert.ErrorContains(t, err, `template "nope.html" not found`)
}
