package shapes

import "math"

// simplifyPolygon reduces the number of points in a polygon using the
// Douglas-Peucker algorithm with the given tolerance epsilon.
func simplifyPolygon(pts []point, epsilon float64) []point {
	if len(pts) <= 3 || epsilon <= 0 {
		return append([]point(nil), pts...)
	}
	keep := make([]bool, len(pts))
	dpSimplify(pts, 0, len(pts)-1, epsilon, keep)
	keep[0] = true
	keep[len(pts)-1] = true

	out := make([]point, 0, len(pts))
	for i, k := range keep {
		if k {
			out = append(out, pts[i])
		}
	}
	return out
}

func dpSimplify(pts []point, start, end int, eps float64, keep []bool) {
	if end <= start+1 {
		return
	}
	maxDist := -1.0
	index := -1
	a := pts[start]
	b := pts[end]
	for i := start + 1; i < end; i++ {
		d := perpendicularDistance(pts[i], a, b)
		if d > maxDist {
			maxDist = d
			index = i
		}
	}
	if maxDist > eps {
		dpSimplify(pts, start, index, eps, keep)
		keep[index] = true
		dpSimplify(pts, index, end, eps, keep)
	}
}

func perpendicularDistance(p, a, b point) float64 {
	vx, vy := b.x-a.x, b.y-a.y
	if vx == 0 && vy == 0 {
		return math.Hypot(p.x-a.x, p.y-a.y)
	}
	num := math.Abs((p.x-a.x)*vy - (p.y-a.y)*vx)
	return num / math.Hypot(vx, vy)
}

func dist(a, b point) float64 {
	return math.Hypot(b.x-a.x, b.y-a.y)
}

// convexHull computes the convex hull of a point set with the monotone chain
// algorithm. Collinear points are dropped, so the hull of an axis-aligned
// outline is just its corners. Returned in CCW order without repeating the
// first point.
func convexHull(pts []point) []point {
	n := len(pts)
	if n <= 1 {
		return append([]point(nil), pts...)
	}
	p := make([]point, n)
	copy(p, pts)
	sortPoints(p)
	p = removeDuplicatePoints(p)
	n = len(p)
	if n <= 1 {
		return append([]point(nil), p...)
	}
	lower := buildLowerHull(p)
	upper := buildUpperHull(p)
	hull := make([]point, 0, len(lower)+len(upper)-2)
	hull = append(hull, lower[:len(lower)-1]...)
	hull = append(hull, upper[:len(upper)-1]...)
	return hull
}

func removeDuplicatePoints(p []point) []point {
	q := p[:0]
	var last point
	hasLast := false
	for _, pt := range p {
		if !hasLast || pt.x != last.x || pt.y != last.y {
			q = append(q, pt)
			last = pt
			hasLast = true
		}
	}
	return q
}

func buildLowerHull(p []point) []point {
	lower := make([]point, 0, len(p))
	for _, pt := range p {
		for len(lower) >= 2 && crossProduct(lower[len(lower)-2], lower[len(lower)-1], pt) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, pt)
	}
	return lower
}

func buildUpperHull(p []point) []point {
	upper := make([]point, 0, len(p))
	for i := len(p) - 1; i >= 0; i-- {
		pt := p[i]
		for len(upper) >= 2 && crossProduct(upper[len(upper)-2], upper[len(upper)-1], pt) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, pt)
	}
	return upper
}

func sortPoints(p []point) {
	// insertion sort; hulls are built from modest contour sizes
	for i := 1; i < len(p); i++ {
		v := p[i]
		j := i - 1
		for j >= 0 && (p[j].x > v.x || (p[j].x == v.x && p[j].y > v.y)) {
			p[j+1] = p[j]
			j--
		}
		p[j+1] = v
	}
}

func crossProduct(o, a, b point) float64 {
	return (a.x-o.x)*(b.y-o.y) - (a.y-o.y)*(b.x-o.x)
}
