package fat32_test

import (
	"testing"

	"github.com/nqwku/fat32emu/fat32"
	"github.com/stretchr/testify/assert"
)

func TestToShortNameTruncatesNameAndExtension(t *testing.T) {
	raw := fat32.ToShortName("verylongfilename.extension")
	assert.Equal(t, "VERYLONGEXT", string(raw[:]))
}

type shortNameCase struct {
	Filename string
	Expected string
}

var shortNameCases = [...]shortNameCase{
	{Filename: "readme.txt", Expected: "README  TXT"},
	{Filename: "noext", Expected: "NOEXT      "},
	{Filename: "a.b", Expected: "A       B  "},
	{Filename: "UPPER.TXT", Expected: "UPPER   TXT"},
}

func TestToShortNameKnownCases(t *testing.T) {
	for _, c := range shortNameCases {
		raw := fat32.ToShortName(c.Filename)
		assert.Equal(t, c.Expected, string(raw[:]), "short name for %q", c.Filename)
	}
}

func TestFromShortNameRoundTrip(t *testing.T) {
	for _, c := range shortNameCases {
		raw := fat32.ToShortName(c.Filename)
		name := fat32.FromShortName(raw)
		// The round trip normalizes case and strips padding, so compare against
		// another pass through ToShortName rather than the original string.
		assert.Equal(t, raw, fat32.ToShortName(name))
	}
}

func TestFromShortNameNoExtension(t *testing.T) {
	raw := fat32.ToShortName("readme")
	assert.Equal(t, "README", fat32.FromShortName(raw))
}
