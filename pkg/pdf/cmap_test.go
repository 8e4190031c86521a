package pdf

import (
	"testing"
)

const identityCMap = `
/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
/CIDSystemInfo
<< /Registry (Adobe)
/Ordering (UCS)
/Supplement 0
>> def
/CMapName /Adobe-Identity-UCS def
/CMapType 2 def
1 begincodespacerange
<0000> <FFFF>
endcodespacerange
3 beginbfchar
<0003> <0020>
<0048> <AC00>
<0049> <AC01>
endbfchar
2 beginbfrange
<004A> <004C> <AC02>
<0050> <0052> [<AC10> <AC11> <AC12>]
endbfrange
endcmap
CMapName currentdict /CMap defineresource pop
end
end
`

func TestParseBeginBFChar(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected map[string]string
	}{
		{
			name: "Single mapping",
			input: `
				1 beginbfchar
				<0001> <0041>
				endbfchar
			`,
			expected: map[string]string{"\x00\x01": "A"},
		},
		{
			name: "Multiple mappings",
			input: `
				3 beginbfchar
				<0001> <0041>
				<0002> <0042>
				<0003> <0043>
				endbfchar
			`,
			expected: map[string]string{
				"\x00\x01": "A",
				"\x00\x02": "B",
				"\x00\x03": "C",
			},
		},
		{
			name: "Korean characters",
			input: `
				2 beginbfchar
				<0001> <AC00>
				<0002> <AC01>
				endbfchar
			`,
			expected: map[string]string{
				"\x00\x01": "가",
				"\x00\x02": "각",
			},
		},
		{
			name: "Byte order mark is dropped",
			input: `
				beginbfchar
				<0001> <FEFF0041>
				endbfchar
			`,
			expected: map[string]string{"\x00\x01": "A"},
		},
		{
			name: "Ligature maps to two characters",
			input: `
				beginbfchar
				<1F> <00660069>
				endbfchar
			`,
			expected: map[string]string{"\x1f": "fi"},
		},
		{
			name: "Surrogate pair",
			input: `
				beginbfchar
				<0001> <D83DDE00>
				endbfchar
			`,
			expected: map[string]string{"\x00\x01": "\U0001F600"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmap, err := ParseToUnicodeCMap([]byte(tt.input))
			if err != nil {
				t.Fatalf("ParseToUnicodeCMap() error = %v", err)
			}
			for code, want := range tt.expected {
				got, ok := cmap.Lookup([]byte(code))
				if !ok {
					t.Errorf("code %X not found", code)
					continue
				}
				if got != want {
					t.Errorf("code %X: expected %q, got %q", code, want, got)
				}
			}
		})
	}
}

func TestParseBeginBFRange(t *testing.T) {
	cmap, err := ParseToUnicodeCMap([]byte(identityCMap))
	if err != nil {
		t.Fatalf("Failed to parse CMap: %v", err)
	}

	tests := []struct {
		code []byte
		want string
	}{
		{[]byte{0x00, 0x03}, " "},
		{[]byte{0x00, 0x48}, "가"},
		{[]byte{0x00, 0x49}, "각"},
		{[]byte{0x00, 0x4A}, "갂"},
		{[]byte{0x00, 0x4B}, "갃"},
		{[]byte{0x00, 0x4C}, "간"},
		{[]byte{0x00, 0x50}, "감"},
		{[]byte{0x00, 0x51}, "갑"},
		{[]byte{0x00, 0x52}, "값"},
	}

	for _, tt := range tests {
		got, ok := cmap.Lookup(tt.code)
		if !ok {
			t.Errorf("code %X not found", tt.code)
			continue
		}
		if got != tt.want {
			t.Errorf("code %X: expected %q, got %q", tt.code, tt.want, got)
		}
	}

	if _, ok := cmap.Lookup([]byte{0x00, 0x4D}); ok {
		t.Error("code 004D should not be mapped")
	}
	if _, ok := cmap.Lookup([]byte{0x4A}); ok {
		t.Error("one byte code must not match a two byte range")
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		cmap  string
		input []byte
		width int
		want  string
	}{
		{
			name:  "Two byte codes from code space",
			cmap:  identityCMap,
			input: []byte{0x00, 0x48, 0x00, 0x03, 0x00, 0x50},
			width: 1,
			want:  "가 감",
		},
		{
			name: "Fallback width without code space",
			cmap: `
				beginbfrange
				<20> <7E> <0020>
				endbfrange
			`,
			input: []byte("Hello"),
			width: 1,
			want:  "Hello",
		},
		{
			name:  "Unmapped codes are dropped",
			cmap:  identityCMap,
			input: []byte{0x00, 0x48, 0x12, 0x34},
			width: 2,
			want:  "가",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmap, err := ParseToUnicodeCMap([]byte(tt.cmap))
			if err != nil {
				t.Fatalf("ParseToUnicodeCMap() error = %v", err)
			}
			if got := cmap.Decode(tt.input, tt.width); got != tt.want {
				t.Errorf("Decode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseEmptyCMap(t *testing.T) {
	if _, err := ParseToUnicodeCMap([]byte("begincmap endcmap")); err == nil {
		t.Error("expected an error for a CMap without mappings")
	}
}

func TestGetMappingCount(t *testing.T) {
	cmap, err := ParseToUnicodeCMap([]byte(identityCMap))
	if err != nil {
		t.Fatalf("Failed to parse CMap: %v", err)
	}

	// 3 direct mappings + 3 contiguous + 3 array entries
	if count := cmap.GetMappingCount(); count != 9 {
		t.Errorf("CMap has %d mappings, expected 9", count)
	}
}

func BenchmarkDecode(b *testing.B) {
	cmap, _ := ParseToUnicodeCMap([]byte(identityCMap))
	data := []byte{0x00, 0x48, 0x00, 0x49, 0x00, 0x4A, 0x00, 0x03, 0x00, 0x50}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = cmap.Decode(data, 2)
	}
}
