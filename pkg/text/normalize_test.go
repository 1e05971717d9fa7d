package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"
)

func TestParseForm(t *testing.T) {
	tests := []struct {
		name    string
		want    norm.Form
		wantErr bool
	}{
		{"", norm.NFC, false},
		{"NFC", norm.NFC, false},
		{"nfd", norm.NFD, false},
		{"NFKC", norm.NFKC, false},
		{"nfkd", norm.NFKD, false},
		{"NFX", norm.NFC, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseForm(tt.name)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownForm)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize(t *testing.T) {
	decomposed := "Ko\u0308nig"
	composed := "K\u00f6nig"
	assert.Equal(t, composed, Normalize(decomposed, norm.NFC))
	assert.Equal(t, decomposed, Normalize(composed, norm.NFD))
	assert.Equal(t, "fi", Normalize("\ufb01", norm.NFKC))
	assert.Equal(t, []string{composed, "x"}, NormalizeLines([]string{decomposed, "x"}, norm.NFC))
}

func TestNormalizeVocalLigatures(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "Mu\u0364ller", want: "Müller"},
		{in: "Ba\u0364cker und So\u0364hne", want: "Bäcker und Söhne"},
		{in: "O\u0364l", want: "Öl"},
		{in: "U\u0364bel", want: "Übel"},
		{in: "ohne", want: "ohne"},
		{in: "de\u0364r", wantErr: true},
		{in: "\u0364", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeVocalLigatures(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrLigature)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLetters(t *testing.T) {
	assert.Equal(t, "DasistÄ", Letters("„Das“ ist\t– 1848: Ä٣!"))
	assert.Equal(t, "abc", Letters("a b c۵"))
	assert.Equal(t, "", Letters(" ⸗ \n"))
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"eins", "zwei", "drei"}, Tokens(" eins  zwei\ndrei "))
	assert.Empty(t, Tokens("   "))
}
