package pdf

import (
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"golang.org/x/text/encoding/charmap"
)

// defaultGlyphWidth is used when a font carries no width for a code, in
// thousandths of text space
const defaultGlyphWidth = 500.0

// FontInfo represents what the interpreter needs to know about a font
type FontInfo struct {
	Name          string
	BaseFont      string
	CodeWidth     int // bytes per character code for fonts without a code space
	FirstChar     int
	Widths        []float64
	DefaultWidth  float64
	CIDWidths     map[int]float64
	ToUnicodeCMap *ToUnicodeCMap
}

// glyph is one decoded character code
type glyph struct {
	code  []byte
	text  string
	width float64 // in thousandths of text space
}

// Glyphs decodes a shown string into characters with their advance widths
func (f *FontInfo) Glyphs(s []byte) []glyph {
	var codes [][]byte
	if f.ToUnicodeCMap != nil {
		codes = f.ToUnicodeCMap.Split(s, f.CodeWidth)
	} else {
		for i := 0; i < len(s); i += f.CodeWidth {
			codes = append(codes, s[i:min(i+f.CodeWidth, len(s))])
		}
	}

	glyphs := make([]glyph, 0, len(codes))
	for _, code := range codes {
		glyphs = append(glyphs, glyph{
			code:  code,
			text:  f.text(code),
			width: f.width(int(codeValue(code))),
		})
	}
	return glyphs
}

func (f *FontInfo) text(code []byte) string {
	if f.ToUnicodeCMap != nil {
		if s, ok := f.ToUnicodeCMap.Lookup(code); ok {
			return s
		}
	}
	if len(code) != 1 {
		return ""
	}
	return string(charmap.Windows1252.DecodeByte(code[0]))
}

func (f *FontInfo) width(code int) float64 {
	if f.CIDWidths != nil {
		if w, ok := f.CIDWidths[code]; ok {
			return w
		}
		return f.DefaultWidth
	}
	if i := code - f.FirstChar; i >= 0 && i < len(f.Widths) {
		return f.Widths[i]
	}
	return f.DefaultWidth
}

// fontLoader resolves font dictionaries through a pdfcpu context
type fontLoader struct {
	ctx   *model.Context
	cache map[string]*FontInfo
}

func newFontLoader(ctx *model.Context) *fontLoader {
	return &fontLoader{ctx: ctx, cache: make(map[string]*FontInfo)}
}

// Load returns the font named name in the given resource dictionary
func (fl *fontLoader) Load(resources types.Dict, name string) *FontInfo {
	if fl.ctx == nil {
		return fallbackFont(name)
	}
	fonts, err := fl.ctx.DereferenceDict(resources["Font"])
	if err != nil || fonts == nil {
		return fallbackFont(name)
	}

	obj, ok := fonts[name]
	if !ok {
		return fallbackFont(name)
	}
	key := name
	if ref, ok := obj.(types.IndirectRef); ok {
		key = ref.String()
	}
	if f, ok := fl.cache[key]; ok {
		return f
	}

	dict, err := fl.ctx.DereferenceDict(obj)
	if err != nil || dict == nil {
		return fallbackFont(name)
	}

	f := fl.parseFont(name, dict)
	fl.cache[key] = f
	return f
}

func fallbackFont(name string) *FontInfo {
	return &FontInfo{Name: name, CodeWidth: 1, DefaultWidth: defaultGlyphWidth}
}

func (fl *fontLoader) parseFont(name string, dict types.Dict) *FontInfo {
	f := fallbackFont(name)
	if bf, ok := dict["BaseFont"].(types.Name); ok {
		f.BaseFont = string(bf)
	}

	if subtype, ok := dict["Subtype"].(types.Name); ok && subtype == "Type0" {
		f.CodeWidth = 2
		fl.parseCIDWidths(f, dict)
	} else {
		if first, err := fl.ctx.DereferenceNumber(dict["FirstChar"]); err == nil {
			f.FirstChar = int(first)
		}
		if arr, err := fl.ctx.DereferenceArray(dict["Widths"]); err == nil {
			for _, w := range arr {
				v, err := fl.ctx.DereferenceNumber(w)
				if err != nil {
					v = 0
				}
				f.Widths = append(f.Widths, v)
			}
		}
	}

	if dict["ToUnicode"] != nil {
		sd, _, err := fl.ctx.DereferenceStreamDict(dict["ToUnicode"])
		if err == nil && sd != nil && sd.Decode() == nil {
			if cmap, err := ParseToUnicodeCMap(sd.Content); err == nil {
				f.ToUnicodeCMap = cmap
			}
		}
	}
	return f
}

// parseCIDWidths reads /DW and /W from the descendant font of a Type0 font
func (fl *fontLoader) parseCIDWidths(f *FontInfo, dict types.Dict) {
	f.CIDWidths = make(map[int]float64)
	f.DefaultWidth = 1000

	descendants, err := fl.ctx.DereferenceArray(dict["DescendantFonts"])
	if err != nil || len(descendants) == 0 {
		return
	}
	cid, err := fl.ctx.DereferenceDict(descendants[0])
	if err != nil || cid == nil {
		return
	}
	if dw, err := fl.ctx.DereferenceNumber(cid["DW"]); err == nil {
		f.DefaultWidth = dw
	}

	w, err := fl.ctx.DereferenceArray(cid["W"])
	if err != nil {
		return
	}
	// Entries are either "c [w1 w2 ...]" or "cFirst cLast w"
	for i := 0; i < len(w); {
		first, err := fl.ctx.DereferenceNumber(w[i])
		if err != nil || i+1 >= len(w) {
			return
		}
		if arr, err := fl.ctx.DereferenceArray(w[i+1]); err == nil && arr != nil {
			for j, o := range arr {
				if v, err := fl.ctx.DereferenceNumber(o); err == nil {
					f.CIDWidths[int(first)+j] = v
				}
			}
			i += 2
			continue
		}
		if i+2 >= len(w) {
			return
		}
		last, err1 := fl.ctx.DereferenceNumber(w[i+1])
		v, err2 := fl.ctx.DereferenceNumber(w[i+2])
		if err1 != nil || err2 != nil {
			return
		}
		for c := int(first); c <= int(last); c++ {
			f.CIDWidths[c] = v
		}
		i += 3
	}
}
