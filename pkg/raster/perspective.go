package raster

import (
	"image"
	"math"

	"golang.org/x/image/math/f64"
)

// Perspective displaces the four image corners by pixel offsets and
// re-rasterizes the image into the resulting quadrilateral.
//
// The quad is approximated piecewise: the source is cut into horizontal
// strips of StripHeight rows and every strip is split into two triangles,
// each mapped with its own exact affine transform. Adjacent pieces share
// edges, so the result has no seams, and the approximation error shrinks
// with the strip height.
type Perspective struct {
	TopLeft, TopRight, BottomRight, BottomLeft Point
	// StripHeight is the number of source rows per strip; <= 0 means 1.
	StripHeight int
}

func (Perspective) Name() string            { return "perspective" }
func (Perspective) DefaultEdge() EdgePolicy { return EdgeClamp }

func (p Perspective) offsets(w, h int) [4]Point {
	limit := 4 * float64(max(w, h))
	c := func(name string, pt Point) Point {
		return Point{
			X: clampParam(name+".x", pt.X, -limit, limit, 0),
			Y: clampParam(name+".y", pt.Y, -limit, limit, 0),
		}
	}
	return [4]Point{
		c("perspective.topLeft", p.TopLeft),
		c("perspective.topRight", p.TopRight),
		c("perspective.bottomRight", p.BottomRight),
		c("perspective.bottomLeft", p.BottomLeft),
	}
}

// corners returns the displaced corners in continuous (edge) coordinates,
// clockwise from the top-left.
func (p Perspective) corners(w, h int) [4]Point {
	off := p.offsets(w, h)
	fw, fh := float64(w), float64(h)
	return [4]Point{
		{0 + off[0].X, 0 + off[0].Y},
		{fw + off[1].X, 0 + off[1].Y},
		{fw + off[2].X, fh + off[2].Y},
		{0 + off[3].X, fh + off[3].Y},
	}
}

// Bounds returns the output rectangle, in source pixel coordinates, for a
// w x h source. With clip it is the source rectangle; otherwise it is the
// bounding box of the displaced corners.
func (p Perspective) Bounds(w, h int, clip bool) image.Rectangle {
	if clip {
		return image.Rect(0, 0, w, h)
	}
	d := p.corners(w, h)
	minX, maxX := d[0].X, d[0].X
	minY, maxY := d[0].Y, d[0].Y
	for _, c := range d[1:] {
		minX = math.Min(minX, c.X)
		maxX = math.Max(maxX, c.X)
		minY = math.Min(minY, c.Y)
		maxY = math.Max(maxY, c.Y)
	}
	r := image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
	if r.Dx() < 1 {
		r.Max.X = r.Min.X + 1
	}
	if r.Dy() < 1 {
		r.Max.Y = r.Min.Y + 1
	}
	return r
}

func (p Perspective) warp(src *Buffer, opts WarpOptions) *Buffer {
	w, h := src.Width, src.Height
	if p.offsets(w, h) == [4]Point{} {
		return src.Clone()
	}
	d := p.corners(w, h)
	bounds := p.Bounds(w, h, opts.Clip)
	dst := NewBuffer(bounds.Dx(), bounds.Dy())

	step := p.StripHeight
	if step <= 0 {
		step = 1
	}
	fw, fh := float64(w), float64(h)
	for s0 := 0; s0 < h; s0 += step {
		s1 := min(s0+step, h)
		t0 := float64(s0) / fh
		t1 := float64(s1) / fh
		l0 := lerpPoint(d[0], d[3], t0)
		l1 := lerpPoint(d[0], d[3], t1)
		r0 := lerpPoint(d[1], d[2], t0)
		r1 := lerpPoint(d[1], d[2], t1)
		y0, y1 := float64(s0), float64(s1)

		fillTriangle(dst, src, bounds.Min, opts.Edge,
			[3]Point{l0, r0, l1},
			[3]Point{{0, y0}, {fw, y0}, {0, y1}})
		fillTriangle(dst, src, bounds.Min, opts.Edge,
			[3]Point{r0, r1, l1},
			[3]Point{{fw, y0}, {fw, y1}, {0, y1}})
	}
	return dst
}

func lerpPoint(a, b Point, t float64) Point {
	return Point{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}

// triangleAffine solves the affine map taking each dst vertex onto the
// matching src vertex. It fails for degenerate destination triangles.
func triangleAffine(dst, src [3]Point) (f64.Aff3, bool) {
	ax, ay := dst[1].X-dst[0].X, dst[1].Y-dst[0].Y
	bx, by := dst[2].X-dst[0].X, dst[2].Y-dst[0].Y
	det := ax*by - bx*ay
	if math.Abs(det) < 1e-9 {
		return f64.Aff3{}, false
	}
	px, py := src[1].X-src[0].X, src[1].Y-src[0].Y
	qx, qy := src[2].X-src[0].X, src[2].Y-src[0].Y
	a := (px*by - qx*ay) / det
	b := (qx*ax - px*bx) / det
	c := (py*by - qy*ay) / det
	e := (qy*ax - py*bx) / det
	tx := src[0].X - (a*dst[0].X + b*dst[0].Y)
	ty := src[0].Y - (c*dst[0].X + e*dst[0].Y)
	return f64.Aff3{a, b, tx, c, e, ty}, true
}

func applyAff3(m f64.Aff3, x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

// fillTriangle rasterizes one destination triangle into dst (whose pixel
// (0,0) sits at origin in source space), reading src through the inverse
// affine map.
func fillTriangle(dst, src *Buffer, origin image.Point, edge EdgePolicy, tri, srcTri [3]Point) {
	m, ok := triangleAffine(tri, srcTri)
	if !ok {
		Logger().Warn("skipping degenerate perspective triangle", "a", tri[0], "b", tri[1], "c", tri[2])
		return
	}
	minX := math.Min(tri[0].X, math.Min(tri[1].X, tri[2].X))
	maxX := math.Max(tri[0].X, math.Max(tri[1].X, tri[2].X))
	minY := math.Min(tri[0].Y, math.Min(tri[1].Y, tri[2].Y))
	maxY := math.Max(tri[0].Y, math.Max(tri[1].Y, tri[2].Y))

	x0 := max(int(math.Floor(minX))-origin.X, 0)
	x1 := min(int(math.Ceil(maxX))-origin.X, dst.Width-1)
	y0 := max(int(math.Floor(minY))-origin.Y, 0)
	y1 := min(int(math.Ceil(maxY))-origin.Y, dst.Height-1)

	area := edgeFn(tri[0], tri[1], tri[2])
	eps := 1e-9 * math.Abs(area)
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			// continuous centre of the destination pixel
			p := Point{float64(px+origin.X) + 0.5, float64(py+origin.Y) + 0.5}
			e0 := edgeFn(tri[0], tri[1], p)
			e1 := edgeFn(tri[1], tri[2], p)
			e2 := edgeFn(tri[2], tri[0], p)
			if area > 0 {
				if e0 < -eps || e1 < -eps || e2 < -eps {
					continue
				}
			} else if e0 > eps || e1 > eps || e2 > eps {
				continue
			}
			u, v := applyAff3(m, p.X, p.Y)
			if !finite(u) || !finite(v) {
				continue
			}
			c := SampleF(src, u-0.5, v-0.5, edge)
			i := dst.Offset(px, py)
			dst.Pix[i+0] = clampRound(c[0])
			dst.Pix[i+1] = clampRound(c[1])
			dst.Pix[i+2] = clampRound(c[2])
			dst.Pix[i+3] = clampRound(c[3])
		}
	}
}

// edgeFn is twice the signed area of triangle (a,b,p).
func edgeFn(a, b, p Point) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}
