package services

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	"github.com/justsurfingit/SalaryIQ/internal/models"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	OGWidth  = 1200
	OGHeight = 630
)

// OGParams are the query inputs of the preview image.
type OGParams struct {
	Verdict    string
	Difference string
	Min        int64
	Max        int64
	Currency   string
}

type verdictStyle struct {
	bg    color.RGBA
	text  color.RGBA
	title string
}

var verdictStyles = map[models.Verdict]verdictStyle{
	models.VerdictUnderpaid: {bg: rgb(0xfe, 0xe2, 0xe2), text: rgb(0x99, 0x1b, 0x1b), title: "UNDERPAID"},
	models.VerdictFair:      {bg: rgb(0xdc, 0xfc, 0xe7), text: rgb(0x16, 0x65, 0x34), title: "FAIRLY PAID"},
	models.VerdictOverpaid:  {bg: rgb(0xf3, 0xe8, 0xff), text: rgb(0x6b, 0x21, 0xa8), title: "ABOVE MARKET"},
}

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"INR": "₹",
	"CAD": "$",
	"AUD": "$",
}

var (
	colorBrand  = rgb(0x1e, 0x29, 0x3b)
	colorRange  = rgb(0x47, 0x55, 0x69)
	colorCTA    = rgb(0x64, 0x74, 0x8b)
	colorDotted = rgb(0xd3, 0xd3, 0xd3)
)

func rgb(r, g, b uint8) color.RGBA { return color.RGBA{R: r, G: g, B: b, A: 0xff} }

// CurrencySymbol maps an ISO code to its display symbol, "$" when unknown.
func CurrencySymbol(code string) string {
	if s, ok := currencySymbols[strings.ToUpper(code)]; ok {
		return s
	}
	return "$"
}

// imageSalary formats amount for the bitmap font, which only carries ASCII.
func imageSalary(amount int64, currency string) string {
	sym := CurrencySymbol(currency)
	if sym != "$" {
		return strings.ToUpper(currency) + " " + FormatAmount(amount)
	}
	return sym + FormatAmount(amount)
}

func styleFor(v string) verdictStyle {
	if s, ok := verdictStyles[models.Verdict(v)]; ok {
		return s
	}
	return verdictStyles[models.VerdictFair]
}

// RenderOGImage writes a 1200x630 PNG summarizing a verdict.
func RenderOGImage(w io.Writer, p OGParams) error {
	style := styleFor(p.Verdict)
	img := image.NewRGBA(image.Rect(0, 0, OGWidth, OGHeight))

	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	for y := 25; y < OGHeight; y += 50 {
		for x := 25; x < OGWidth; x += 50 {
			fillRect(img, image.Rect(x-1, y-1, x+2, y+2), colorDotted)
		}
	}

	card := image.Rect(120, 70, OGWidth-120, OGHeight-70)
	fillRect(img, card, style.text)
	fillRect(img, card.Inset(8), style.bg)

	cx := OGWidth / 2
	y := 110
	y = drawCentered(img, "SalaryIQ", colorBrand, cx, y, 5) + 36
	y = drawCentered(img, style.title, style.text, cx, y, 7) + 18
	y = drawCentered(img, p.Difference+"%", style.text, cx, y, 6) + 36
	rangeText := imageSalary(p.Min, p.Currency) + " - " + imageSalary(p.Max, p.Currency)
	y = drawCentered(img, rangeText, colorRange, cx, y, 3) + 40
	drawCentered(img, "Discover your true market value", colorCTA, cx, y, 3)

	return png.Encode(w, img)
}

func fillRect(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// drawCentered renders s at an integer scale of the 7x13 face, centered on cx
// with its top edge at top. It returns the bottom edge.
func drawCentered(dst draw.Image, s string, c color.Color, cx, top, scale int) int {
	face := basicfont.Face7x13
	width := font.MeasureString(face, s).Ceil()
	height := face.Height
	if width == 0 {
		return top
	}

	glyphs := image.NewRGBA(image.Rect(0, 0, width, height))
	d := &font.Drawer{
		Dst:  glyphs,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(s)

	sw, sh := width*scale, height*scale
	target := image.Rect(cx-sw/2, top, cx-sw/2+sw, top+sh)
	draw.NearestNeighbor.Scale(dst, target, glyphs, glyphs.Bounds(), draw.Over, nil)
	return top + sh
}
