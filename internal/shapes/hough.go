package shapes

import (
	"image"
	"math"
	"sort"

	"github.com/yolokit/yolokit/internal/geom"
)

// FindCircles detects circles with a Hough transform over the edge mask and
// returns their bounding squares. For every radius in the configured range,
// each edge pixel votes for possible centers; accumulator peaks that gather
// at least 60% of the expected circumference count become detections.
// Detections whose centers fall within Params.MinDist of an earlier, more
// confident one are dropped as duplicates.
func FindCircles(img image.Image, p Params) []Candidate {
	p = p.withDefaults()
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	edges := cannyEdges(img, p.CannyLow, p.CannyHigh)

	type circle struct {
		x, y, r    int
		confidence float64
	}
	var circles []circle

	for radius := p.MinRadius; radius <= p.MaxRadius; radius++ {
		accumulator := make([][]int, height)
		for y := 0; y < height; y++ {
			accumulator[y] = make([]int, width)
		}

		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				if !edges[y][x] {
					continue
				}
				for angle := 0; angle < 360; angle += 10 {
					rad := float64(angle) * math.Pi / 180
					cx := x - int(float64(radius)*math.Cos(rad))
					cy := y - int(float64(radius)*math.Sin(rad))
					if cx >= 0 && cx < width && cy >= 0 && cy < height {
						accumulator[cy][cx]++
					}
				}
			}
		}

		threshold := int(float64(2*radius) * 0.6)
		for y := radius; y < height-radius; y++ {
			for x := radius; x < width-radius; x++ {
				if accumulator[y][x] < threshold {
					continue
				}
				if !isLocalMax(accumulator, x, y, width, height) {
					continue
				}
				circles = append(circles, circle{
					x: x, y: y, r: radius,
					confidence: math.Min(float64(accumulator[y][x])/float64(2*radius), 1.0),
				})
			}
		}
	}

	sort.Slice(circles, func(i, j int) bool { return circles[i].confidence > circles[j].confidence })

	var out []Candidate
	for _, c := range circles {
		dup := false
		for _, kept := range out {
			kx := (kept.Rect.X1 + kept.Rect.X2) / 2
			ky := (kept.Rect.Y1 + kept.Rect.Y2) / 2
			if math.Hypot(float64(c.x)-kx, float64(c.y)-ky) < float64(p.MinDist) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		out = append(out, Candidate{
			Rect:       geom.NewRect(float64(c.x-c.r), float64(c.y-c.r), float64(c.x+c.r), float64(c.y+c.r)),
			Confidence: c.confidence,
		})
	}
	return out
}

func isLocalMax(accumulator [][]int, x, y, width, height int) bool {
	for dy := -5; dy <= 5; dy++ {
		for dx := -5; dx <= 5; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			ny, nx := y+dy, x+dx
			if ny < 0 || ny >= height || nx < 0 || nx >= width {
				continue
			}
			if accumulator[ny][nx] > accumulator[y][x] {
				return false
			}
		}
	}
	return true
}
