package imagegen

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"sync"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/TheMainlander/MyVicSurf-sub000/internal/models"
)

// Card dimensions match the Open Graph image size.
const (
	CardWidth  = 1200
	CardHeight = 630
)

var (
	faceScore   font.Face
	faceTitle   font.Face
	faceBody    font.Face
	fontOnce    sync.Once
	fontLoadErr error
)

func loadFonts() {
	fontOnce.Do(func() {
		regular, err := opentype.Parse(goregular.TTF)
		if err != nil {
			fontLoadErr = fmt.Errorf("parse goregular: %w", err)
			return
		}
		bold, err := opentype.Parse(gobold.TTF)
		if err != nil {
			fontLoadErr = fmt.Errorf("parse gobold: %w", err)
			return
		}
		if faceScore, err = newFace(bold, 150); err != nil {
			fontLoadErr = err
			return
		}
		if faceTitle, err = newFace(bold, 56); err != nil {
			fontLoadErr = err
			return
		}
		faceBody, fontLoadErr = newFace(regular, 34)
	})
}

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("create %.0fpt face: %w", size, err)
	}
	return face, nil
}

// CardData is the text drawn on a report card.
type CardData struct {
	SpotName  string
	Score     float64
	Rating    string
	Breaking  float64 // metres
	Period    float64 // seconds
	SwellDir  string
	WindSpeed float64 // km/h
	WindDir   string
	Tide      string // e.g. "1.2 m measured", empty when unknown
	ValidAt   time.Time
}

// CardFromReport fills card text from a stored report, with times in loc.
func CardFromReport(spotName string, r models.SurfReport, loc *time.Location) CardData {
	d := CardData{
		SpotName:  spotName,
		Score:     r.SurfScore,
		Rating:    r.Rating,
		Breaking:  r.BreakingHeight,
		Period:    r.PrimarySwellPeriod,
		SwellDir:  r.PrimarySwellDirection,
		WindSpeed: r.WindSpeed,
		WindDir:   r.WindDirection,
		ValidAt:   r.ValidAt.In(loc),
	}
	if r.TideHeight != nil {
		d.Tide = fmt.Sprintf("%.1f m %s", *r.TideHeight, r.TideSource)
	}
	return d
}

var ratingColors = map[string]color.RGBA{
	"excellent": {46, 204, 113, 255},
	"good":      {39, 174, 96, 255},
	"fair":      {241, 196, 15, 255},
	"poor":      {230, 126, 34, 255},
	"flat":      {149, 165, 166, 255},
}

// RenderCard draws a 1200x630 PNG. background may be nil, in which case a
// plain ocean gradient is used; otherwise it is cover-cropped to fit.
func RenderCard(background []byte, d CardData) ([]byte, error) {
	loadFonts()
	if fontLoadErr != nil {
		return nil, fmt.Errorf("load fonts: %w", fontLoadErr)
	}

	dst := image.NewRGBA(image.Rect(0, 0, CardWidth, CardHeight))
	if background != nil {
		src, _, err := image.Decode(bytes.NewReader(background))
		if err != nil {
			return nil, fmt.Errorf("decode background: %w", err)
		}
		coverCrop(dst, src)
	} else {
		drawOceanGradient(dst)
	}
	drawGradientOverlay(dst)

	white := color.RGBA{255, 255, 255, 255}
	lightGray := color.RGBA{210, 215, 220, 255}
	accent, ok := ratingColors[d.Rating]
	if !ok {
		accent = white
	}

	drawText(dst, d.SpotName, 60, 100, white, faceTitle)
	if !d.ValidAt.IsZero() {
		drawText(dst, d.ValidAt.Format("Mon 2 Jan 3:04pm"), 60, 150, lightGray, faceBody)
	}

	drawText(dst, fmt.Sprintf("%.1f", d.Score), 60, CardHeight-210, accent, faceScore)
	drawText(dst, d.Rating, 380, CardHeight-250, accent, faceTitle)

	swell := fmt.Sprintf("%.1f m @ %.0fs %s", d.Breaking, d.Period, d.SwellDir)
	wind := fmt.Sprintf("Wind %.0f km/h %s", d.WindSpeed, d.WindDir)
	drawText(dst, swell, 60, CardHeight-130, white, faceBody)
	drawText(dst, wind, 60, CardHeight-85, lightGray, faceBody)
	if d.Tide != "" {
		drawText(dst, "Tide "+d.Tide, 700, CardHeight-85, lightGray, faceBody)
	}
	drawText(dst, "vicsurf", CardWidth-200, CardHeight-30, lightGray, faceBody)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode card: %w", err)
	}
	return buf.Bytes(), nil
}

// coverCrop scales src to cover dst and centre crops, nearest neighbour.
func coverCrop(dst *image.RGBA, src image.Image) {
	b := src.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	scale := max(float64(CardWidth)/float64(srcW), float64(CardHeight)/float64(srcH))
	offsetX := (int(float64(srcW)*scale) - CardWidth) / 2
	offsetY := (int(float64(srcH)*scale) - CardHeight) / 2

	for y := 0; y < CardHeight; y++ {
		for x := 0; x < CardWidth; x++ {
			sx := int(float64(x+offsetX) / scale)
			sy := int(float64(y+offsetY) / scale)
			if sx >= 0 && sx < srcW && sy >= 0 && sy < srcH {
				dst.Set(x, y, src.At(b.Min.X+sx, b.Min.Y+sy))
			}
		}
	}
}

func drawOceanGradient(img *image.RGBA) {
	for y := 0; y < CardHeight; y++ {
		p := float64(y) / float64(CardHeight)
		c := color.RGBA{uint8(10 + p*10), uint8(60 + p*40), uint8(110 + p*40), 255}
		for x := 0; x < CardWidth; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// drawGradientOverlay darkens the bottom of the card for legibility.
func drawGradientOverlay(img *image.RGBA) {
	const height = 330
	for y := CardHeight - height; y < CardHeight; y++ {
		p := float64(y-(CardHeight-height)) / height
		alpha := p * p * 0.85
		for x := 0; x < CardWidth; x++ {
			c := img.RGBAAt(x, y)
			c.R = uint8(float64(c.R) * (1 - alpha))
			c.G = uint8(float64(c.G) * (1 - alpha))
			c.B = uint8(float64(c.B) * (1 - alpha))
			img.SetRGBA(x, y, c)
		}
	}
}

func drawText(img *image.RGBA, text string, x, y int, col color.Color, face font.Face) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

// CardCache keeps rendered cards for a short TTL, keyed by spot.
type CardCache struct {
	mu    sync.RWMutex
	ttl   time.Duration
	cards map[string]cachedCard
}

type cachedCard struct {
	data      []byte
	reportID  string
	expiresAt time.Time
}

func NewCardCache(ttl time.Duration) *CardCache {
	return &CardCache{ttl: ttl, cards: make(map[string]cachedCard)}
}

// Get returns a card rendered for the same report within the TTL.
func (c *CardCache) Get(spotID, reportID string, now time.Time) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	card, ok := c.cards[spotID]
	if !ok || card.reportID != reportID || now.After(card.expiresAt) {
		return nil, false
	}
	return card.data, true
}

func (c *CardCache) Set(spotID, reportID string, data []byte, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cards[spotID] = cachedCard{data: data, reportID: reportID, expiresAt: now.Add(c.ttl)}
}
