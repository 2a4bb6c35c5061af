package pool

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"
)

// Default block-art size; terminal cells are roughly twice as tall as wide.
const (
	DefaultArtWidth  = 12
	DefaultArtHeight = 6
)

const artRamp = " .:-=+*#%@"

var errEmptyImage = errors.New("empty image")

// Picture is a decoded stimulus.
type Picture struct {
	Format string
	Width  int
	Height int
	// Art is a block-character rendering, one string per row. Vector images
	// have none.
	Art []string
}

// Decode validates and decodes raw image bytes.
func Decode(data []byte, artWidth, artHeight int) (*Picture, error) {
	if len(data) == 0 {
		return nil, errEmptyImage
	}
	if isSVG(data) {
		return &Picture{Format: "svg"}, nil
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	bounds := img.Bounds()
	return &Picture{
		Format: format,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Art:    blockArt(img, artWidth, artHeight),
	}, nil
}

func isSVG(data []byte) bool {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	head = bytes.TrimSpace(head)
	if !bytes.HasPrefix(head, []byte("<")) {
		return false
	}
	return bytes.Contains(bytes.ToLower(head), []byte("<svg"))
}

// blockArt averages luminance over w x h blocks and maps it onto artRamp.
func blockArt(img image.Image, w, h int) []string {
	bounds := img.Bounds()
	if w <= 0 || h <= 0 || bounds.Empty() {
		return nil
	}
	rows := make([]string, 0, h)
	for y := 0; y < h; y++ {
		y0 := bounds.Min.Y + y*bounds.Dy()/h
		y1 := max(bounds.Min.Y+(y+1)*bounds.Dy()/h, y0+1)
		var row strings.Builder
		for x := 0; x < w; x++ {
			x0 := bounds.Min.X + x*bounds.Dx()/w
			x1 := max(bounds.Min.X+(x+1)*bounds.Dx()/w, x0+1)
			row.WriteByte(artRamp[rampIndex(img, x0, y0, x1, y1)])
		}
		rows = append(rows, row.String())
	}
	return rows
}

func rampIndex(img image.Image, x0, y0, x1, y1 int) int {
	var sum, n uint64
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// Rec. 601 luma on 16-bit channels
			sum += (299*uint64(r) + 587*uint64(g) + 114*uint64(b)) / 1000
			n++
		}
	}
	if n == 0 {
		return 0
	}
	luma := sum / n
	return int(luma * uint64(len(artRamp)-1) / 0xffff)
}
