package lossy

import (
	"fmt"
	"image"
	"imgpress/internal/core/domain"
	"strconv"
	"strings"

	"github.com/disintegration/gift"
)

var namedAspectRatios = []string{"4:3", "16:9", "1:1", domain.OriginalAspect}

// AspectRatios lists the ratios offered to users. Any W:H with positive terms is accepted.
func AspectRatios() []string {
	return append([]string(nil), namedAspectRatios...)
}

// AspectRatio is a width:height target. The zero value keeps the original proportions.
type AspectRatio struct {
	W int
	H int
}

func (a AspectRatio) IsOriginal() bool {
	return a.W == 0 && a.H == 0
}

func (a AspectRatio) String() string {
	if a.IsOriginal() {
		return domain.OriginalAspect
	}
	return fmt.Sprintf("%d:%d", a.W, a.H)
}

// ParseAspectRatio accepts "original" (or an empty string) and "W:H".
func ParseAspectRatio(s string) (AspectRatio, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == domain.OriginalAspect {
		return AspectRatio{}, nil
	}

	ws, hs, ok := strings.Cut(s, ":")
	if !ok {
		return AspectRatio{}, fmt.Errorf("%w: aspect ratio %q is not W:H", domain.ErrInvalidGeometry, s)
	}

	w, errW := strconv.Atoi(ws)
	h, errH := strconv.Atoi(hs)
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return AspectRatio{}, fmt.Errorf("%w: aspect ratio %q needs positive integers", domain.ErrInvalidGeometry, s)
	}

	return AspectRatio{W: w, H: h}, nil
}

// CropRegion is a rectangle within the source grid, right and bottom exclusive.
type CropRegion struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

func (r CropRegion) Width() int {
	return r.Right - r.Left
}

func (r CropRegion) Height() int {
	return r.Bottom - r.Top
}

func (r CropRegion) Rect() image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Right, r.Bottom)
}

// Crop computes the largest centered region of a width x height grid with proportions
// ratioW:ratioH. A grid wider than the target keeps its full height, anything else keeps
// its full width. A grid already at the target ratio yields the whole grid.
func Crop(width, height, ratioW, ratioH int) (CropRegion, error) {
	if width <= 0 || height <= 0 || ratioW <= 0 || ratioH <= 0 {
		return CropRegion{}, fmt.Errorf("%w: %dx%d to %d:%d", domain.ErrInvalidGeometry, width, height, ratioW, ratioH)
	}

	// width/height > ratioW/ratioH, compared exactly
	if width*ratioH > height*ratioW {
		newWidth := height * ratioW / ratioH
		if newWidth == 0 {
			return CropRegion{}, fmt.Errorf("%w: %dx%d to %d:%d has zero width",
				domain.ErrInvalidGeometry, width, height, ratioW, ratioH)
		}

		left := (width - newWidth) / 2
		return CropRegion{Left: left, Top: 0, Right: left + newWidth, Bottom: height}, nil
	}

	newHeight := width * ratioH / ratioW
	if newHeight == 0 {
		return CropRegion{}, fmt.Errorf("%w: %dx%d to %d:%d has zero height",
			domain.ErrInvalidGeometry, width, height, ratioW, ratioH)
	}

	top := (height - newHeight) / 2
	return CropRegion{Left: 0, Top: top, Right: width, Bottom: top + newHeight}, nil
}

// CropToRatio crops img to ratio, returning img unchanged when no crop is needed.
func CropToRatio(img image.Image, ratio AspectRatio) (image.Image, error) {
	if ratio.IsOriginal() {
		return img, nil
	}

	bounds := img.Bounds()
	region, err := Crop(bounds.Dx(), bounds.Dy(), ratio.W, ratio.H)
	if err != nil {
		return nil, err
	}

	if region.Width() == bounds.Dx() && region.Height() == bounds.Dy() {
		return img, nil
	}

	g := gift.New(gift.Crop(region.Rect().Add(bounds.Min)))
	dst := image.NewRGBA(g.Bounds(bounds))
	g.Draw(dst, img)

	return dst, nil
}
