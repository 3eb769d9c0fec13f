package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/dealdesk/internal/encoding"
)

func TestNewUTF8Reader(t *testing.T) {
	type testCase struct {
		name        string
		input       []byte
		wantText    string
		wantCharset string
		wantBOM     bool
	}

	tests := []testCase{
		{
			name:        "utf-8 passes through",
			input:       []byte("Nome;Email\nJosé Conceição;jose@example.com\n"),
			wantText:    "Nome;Email\nJosé Conceição;jose@example.com\n",
			wantCharset: encoding.UTF8,
		},
		{
			name:        "utf-8 bom is stripped",
			input:       append([]byte{0xEF, 0xBB, 0xBF}, []byte("Nome;Telefone\n")...),
			wantText:    "Nome;Telefone\n",
			wantCharset: encoding.UTF8,
			wantBOM:     true,
		},
		{
			name: "windows-1252 is decoded",
			// "Conceição;Fornecedor\n" with ç = 0xE7 and ã = 0xE3
			input: []byte{
				'C', 'o', 'n', 'c', 'e', 'i', 0xE7, 0xE3, 'o', ';',
				'F', 'o', 'r', 'n', 'e', 'c', 'e', 'd', 'o', 'r', '\n',
			},
			wantText: "Conceição;Fornecedor\n",
		},
		{
			name:        "utf-16 little endian with bom",
			input:       []byte{0xFF, 0xFE, 'N', 0, 'a', 0, 'm', 0, 'e', 0, '\n', 0},
			wantText:    "Name\n",
			wantCharset: encoding.UTF16LE,
			wantBOM:     true,
		},
		{
			name:        "empty input",
			input:       nil,
			wantText:    "",
			wantCharset: encoding.UTF8,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, err := encoding.NewUTF8Reader(bytes.NewReader(tc.input))
			require.NoError(t, err)

			got, err := io.ReadAll(r)
			require.NoError(t, err)

			assert.Equal(t, tc.wantText, string(got))
			if tc.wantCharset != "" {
				assert.Equal(t, tc.wantCharset, r.Charset)
			}

			assert.Equal(t, tc.wantBOM, r.BOM)
		})
	}
}

func TestDetect_ValidUTF8(t *testing.T) {
	assert.Equal(t, encoding.UTF8, encoding.Detect([]byte("Ação")))
}
