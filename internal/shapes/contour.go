package shapes

type point struct {
	x, y float64
}

// findContours groups connected edge pixels into contours with a stack-based
// flood fill over 8-connected neighbors. Contours under 10 pixels are noise.
func findContours(edges [][]bool, width, height int) [][]point {
	visited := make([][]bool, height)
	for y := 0; y < height; y++ {
		visited[y] = make([]bool, width)
	}

	var contours [][]point
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !edges[y][x] || visited[y][x] {
				continue
			}
			contour := floodFill(edges, visited, x, y, width, height)
			if len(contour) >= 10 {
				contours = append(contours, contour)
			}
		}
	}
	return contours
}

func floodFill(edges, visited [][]bool, startX, startY, width, height int) []point {
	type cell struct{ x, y int }
	stack := []cell{{startX, startY}}
	var contour []point

	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if c.x < 0 || c.x >= width || c.y < 0 || c.y >= height {
			continue
		}
		if visited[c.y][c.x] || !edges[c.y][c.x] {
			continue
		}

		visited[c.y][c.x] = true
		contour = append(contour, point{x: float64(c.x), y: float64(c.y)})

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, cell{c.x + dx, c.y + dy})
			}
		}
	}
	return contour
}

// approxContour reduces a contour to a convex polygon: convex hull first,
// then Douglas-Peucker with a tolerance of eps times the hull perimeter.
// The hull step mirrors the convexity requirement of the contour checks.
func approxContour(contour []point, eps float64) []point {
	hull := convexHull(contour)
	if len(hull) <= 3 {
		return hull
	}

	perimeter := 0.0
	for i := range hull {
		next := hull[(i+1)%len(hull)]
		perimeter += dist(hull[i], next)
	}
	return simplifyPolygon(hull, eps*perimeter)
}
