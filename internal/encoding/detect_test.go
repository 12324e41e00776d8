package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/saldo/internal/encoding"
)

const header = "Descrição;Montante\nCafé;12,50\nOperação;-3,00\n"

func encode(t *testing.T, enc interface{ Bytes([]byte) ([]byte, error) }, s string) []byte {
	t.Helper()

	b, err := enc.Bytes([]byte(s))
	require.NoError(t, err)

	return b
}

func TestDetect(t *testing.T) {
	type testCase struct {
		name        string
		input       []byte
		wantCharset string
	}

	// Short single-byte samples may be classified as any Latin charset, so only
	// the decoded text is checked for them.
	tests := []testCase{
		{name: "UTF8", input: []byte(header), wantCharset: encoding.UTF8},
		{name: "UTF8BOM", input: append([]byte{0xEF, 0xBB, 0xBF}, header...), wantCharset: encoding.UTF8BOM},
		{
			name:        "UTF16LE",
			input:       encode(t, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder(), header),
			wantCharset: encoding.UTF16LE,
		},
		{
			name:  "SingleByte",
			input: encode(t, charmap.Windows1252.NewEncoder(), header),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, charset, err := encoding.Detect(bytes.NewReader(tt.input))
			require.NoError(t, err)
			if tt.wantCharset != "" {
				assert.Equal(t, tt.wantCharset, charset)
			}

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, header, string(got))
		})
	}
}

func TestDetect_MultibyteAcrossSniffWindow(t *testing.T) {
	// Pad so a two-byte "ç" straddles the first 4096 bytes.
	input := strings.Repeat("a", 4095) + "ç;1,00\n"

	r, charset, err := encoding.Detect(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, encoding.UTF8, charset)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestNewUTF8Reader_Empty(t *testing.T) {
	r, err := encoding.NewUTF8Reader(strings.NewReader(""))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Empty(t, got)
}
