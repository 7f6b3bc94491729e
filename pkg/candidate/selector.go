// Package candidate labels the 8-connected foreground components of a
// binary image and keeps only the largest one as the candidate mass.
//
// Components are ranked by the area enclosed by their external boundary,
// so a ring-shaped component counts its hole. The returned mask still holds
// only the component's own pixels: holes are never filled and the selector
// never adds foreground.
package candidate

import (
	"image"

	"tumorarea/internal/models"
)

// neighbours8 lists the 8-connected offsets.
var neighbours8 = [8]image.Point{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Label assigns a 1-based component number to every foreground pixel of src
// in raster scan order. Background pixels get 0. It returns the label map
// and the number of components.
func Label(src *models.BinaryImage) ([]int, int) {
	w, h := src.Width, src.Height
	labels := make([]int, w*h)
	count := 0
	var stack []int

	for i, v := range src.Pix {
		if v != models.Foreground || labels[i] != 0 {
			continue
		}
		count++
		labels[i] = count
		stack = append(stack[:0], i)
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			cx, cy := cur%w, cur/w
			for _, d := range neighbours8 {
				nx, ny := cx+d.X, cy+d.Y
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				ni := ny*w + nx
				if src.Pix[ni] == models.Foreground && labels[ni] == 0 {
					labels[ni] = count
					stack = append(stack, ni)
				}
			}
		}
	}
	return labels, count
}

// Regions describes every component of src, ordered by label.
func Regions(src *models.BinaryImage) ([]models.Region, []int) {
	labels, count := Label(src)
	if count == 0 {
		return nil, labels
	}

	w := src.Width
	regions := make([]models.Region, count)
	starts := make([]image.Point, count)
	for i := range regions {
		regions[i].Label = i + 1
	}

	for i, l := range labels {
		if l == 0 {
			continue
		}
		x, y := i%w, i/w
		r := &regions[l-1]
		if r.Pixels == 0 {
			starts[l-1] = image.Pt(x, y)
			r.Bounds = image.Rect(x, y, x+1, y+1)
		} else {
			r.Bounds = r.Bounds.Union(image.Rect(x, y, x+1, y+1))
		}
		r.Pixels++
	}

	for i := range regions {
		r := &regions[i]
		r.Boundary = traceBoundary(labels, src.Width, src.Height, r.Label, starts[i])
		r.Area = enclosedArea(labels, src.Width, r.Label, r.Bounds)
	}
	return regions, labels
}

// Select keeps the component with the largest enclosed area, breaking ties
// in favour of the first one found in scan order. It returns the candidate
// mask, every region found and the index of the selected region (-1 when
// src has no foreground, in which case the mask is an empty copy of src).
func Select(src *models.BinaryImage) (*models.BinaryImage, []models.Region, int) {
	out := models.NewBinaryImage(src.Width, src.Height)
	regions, labels := Regions(src)
	if len(regions) == 0 {
		return out, nil, -1
	}

	best := 0
	for i := 1; i < len(regions); i++ {
		if regions[i].Area > regions[best].Area {
			best = i
		}
	}

	keep := regions[best].Label
	for i, l := range labels {
		if l == keep {
			out.Pix[i] = models.Foreground
		}
	}
	return out, regions, best
}

// enclosedArea counts the pixels inside the external boundary of the
// component: its bounding box minus the background reachable from outside
// through 4-connected steps that avoid the component.
func enclosedArea(labels []int, width, label int, bounds image.Rectangle) int {
	// local grid with a one pixel margin around the bounding box
	lw, lh := bounds.Dx()+2, bounds.Dy()+2
	blocked := func(lx, ly int) bool {
		x, y := bounds.Min.X+lx-1, bounds.Min.Y+ly-1
		if lx == 0 || ly == 0 || lx == lw-1 || ly == lh-1 {
			return false
		}
		return labels[y*width+x] == label
	}

	seen := make([]bool, lw*lh)
	seen[0] = true
	stack := []int{0}
	outside := 0
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		outside++
		cx, cy := cur%lw, cur/lw
		for _, d := range [4]image.Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			nx, ny := cx+d.X, cy+d.Y
			if nx < 0 || ny < 0 || nx >= lw || ny >= lh {
				continue
			}
			ni := ny*lw + nx
			if !seen[ni] && !blocked(nx, ny) {
				seen[ni] = true
				stack = append(stack, ni)
			}
		}
	}
	return lw*lh - outside
}
