package candidate

import "image"

// ring lists the Moore neighbourhood clockwise (y grows downwards),
// starting from the west neighbour.
var ring = [8]image.Point{
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
}

func ringIndex(d image.Point) int {
	for i, p := range ring {
		if p == d {
			return i
		}
	}
	return 0
}

// traceBoundary follows the external contour of the component with the
// given label by Moore-neighbour tracing. start must be the component's
// first pixel in raster order, so its west neighbour is known to lie
// outside the component. Tracing stops when the move out of start that
// began the contour is about to be repeated.
func traceBoundary(labels []int, width, height, label int, start image.Point) []image.Point {
	inside := func(p image.Point) bool {
		if p.X < 0 || p.Y < 0 || p.X >= width || p.Y >= height {
			return false
		}
		return labels[p.Y*width+p.X] == label
	}

	// next returns the first component pixel met clockwise around p after
	// the backtrack pixel b, and the background pixel checked just before it
	next := func(p, b image.Point) (image.Point, image.Point, bool) {
		k := ringIndex(b.Sub(p))
		for i := 1; i <= 8; i++ {
			c := p.Add(ring[(k+i)%8])
			if inside(c) {
				return c, p.Add(ring[(k+i-1)%8]), true
			}
		}
		return p, b, false
	}

	boundary := []image.Point{start}
	first, b, ok := next(start, start.Add(ring[0]))
	if !ok {
		return boundary
	}

	p := first
	// every pixel can be entered from at most 4 sides, which bounds the walk
	limit := 4*len(labels) + 8
	for steps := 0; steps < limit; steps++ {
		if p == start {
			n, _, _ := next(p, b)
			if n == first {
				break
			}
		}
		boundary = append(boundary, p)
		p, b, _ = next(p, b)
	}
	return boundary
}
