package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeWraps(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"hyphen", []string{"foo-", "bar baz"}, []string{"foobar", "baz"}},
		{"double oblique hyphen", []string{"Zei⸗", "tung"}, []string{"Zeitung", ""}},
		{"em dash", []string{"ab—", "cd ef"}, []string{"abcd", "ef"}},
		{"blank next line", []string{"foo-", " ", "bar"}, []string{"foo-", " ", "bar"}},
		{"last line", []string{"bar", "foo-"}, []string{"bar", "foo-"}},
		{"no hyphen", []string{"foo", "bar"}, []string{"foo", "bar"}},
		{"chained", []string{"a-", "b-", "c d"}, []string{"ab-", "", "c d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeWraps(tt.in))
		})
	}
}

func TestSanitizeWrapsKeepsInput(t *testing.T) {
	in := []string{"foo-", "bar baz"}
	SanitizeWraps(in)
	assert.Equal(t, []string{"foo-", "bar baz"}, in)
}

func TestSanitizeChars(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"„Das“ ist 1848 geschehen!", "Das ist geschehen"},
		{"a b cd", "cd"},
		{"(x)", ""},
		{"Wort... [sic]", "Wort sic"},
		{"  Haus  und   Hof ", "Haus und Hof"},
		{"Zei⸗", "Zei⸗"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, []string{tt.want}, SanitizeChars([]string{tt.in}))
		})
	}
}

func TestDictLines(t *testing.T) {
	in := []string{"", "foo-", "bar baz", "  ", "12 ab."}
	assert.Equal(t, []string{"foobar", "baz", "ab"}, DictLines(in))
	assert.Equal(t, "foobar baz ab", DictText(in))
}

func TestDictLinesExposedHyphen(t *testing.T) {
	// stripping the trailing digit leaves a wrap to stitch
	got := DictLines([]string{"eins zwei⸗ 3", "drei vier"})
	assert.Equal(t, []string{"eins zweidrei", "vier"}, got)
}

func TestDictLinesIdempotent(t *testing.T) {
	inputs := [][]string{
		{"foo-", "bar baz"},
		{"Die Zei-", "tung", "1848."},
		{"x⸗", "", "y z"},
		{"„Anführung“ — mit Strich—", "weiter geht's."},
		{},
	}
	for _, in := range inputs {
		once := DictLines(in)
		assert.Equal(t, once, DictLines(once), "%q", in)
	}
}
