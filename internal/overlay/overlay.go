// Package overlay projects the blocks of one page into screen-space
// rectangles for the viewer to composite over the rendered page.
package overlay

import (
	"github.com/blockview/blockview/internal/block"
)

// Rect is one overlay rectangle. ID is the block id and doubles as the
// renderer's diffing key. Selected blocks render above and visually
// distinct from unselected ones.
type Rect struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Tooltip  string  `json:"tooltip"`
	Selected bool    `json:"selected"`
}

// Project computes the rectangles to draw for one page at the given zoom
// scale. Page blocks and blocks with fewer than 4 polygon points produce
// no rectangle. selectedID may be empty.
//
// Projection is a pure read over the immutable flat collection; it is
// recomputed on every viewport or scale change.
func Project(doc *block.Document, pageIndex int, scale float64, selectedID string) []Rect {
	blocks := doc.OnPage(pageIndex)
	rects := make([]Rect, 0, len(blocks))
	for _, b := range blocks {
		if !b.HasPolygon() {
			continue
		}
		r := Bounds(b.Polygon)
		rects = append(rects, Rect{
			ID:       b.ID,
			X:        r.X * scale,
			Y:        r.Y * scale,
			Width:    r.Width * scale,
			Height:   r.Height * scale,
			Tooltip:  StripTags(b.HTML),
			Selected: selectedID != "" && b.ID == selectedID,
		})
	}
	return rects
}

// Box is an axis-aligned bounding box in page coordinates.
type Box struct {
	X, Y, Width, Height float64
}

// Bounds returns the minimal axis-aligned box enclosing the polygon.
// The polygon need not be rectangular or convex.
func Bounds(polygon [][2]float64) Box {
	minX, minY := polygon[0][0], polygon[0][1]
	maxX, maxY := minX, minY
	for _, p := range polygon[1:] {
		if p[0] < minX {
			minX = p[0]
		}
		if p[0] > maxX {
			maxX = p[0]
		}
		if p[1] < minY {
			minY = p[1]
		}
		if p[1] > maxY {
			maxY = p[1]
		}
	}
	return Box{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
