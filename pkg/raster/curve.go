package raster

import (
	"math"
	"sort"
)

// CurvePoint is one control point of a tone curve, both coordinates in
// [0,255].
type CurvePoint struct {
	In, Out float64
}

// CurveLUT interpolates the control points with a monotone cubic
// (Fritsch-Carlson) so that non-decreasing points give a non-decreasing
// table without overshoot. Values left of the first point and right of the
// last are held flat. Fewer than two distinct points give the identity.
func CurveLUT(points []CurvePoint) LUT {
	pts := make([]CurvePoint, 0, len(points))
	for _, p := range points {
		if !finite(p.In) || !finite(p.Out) {
			continue
		}
		pts = append(pts, CurvePoint{
			In:  clampParam("curve.in", p.In, 0, 255, 0),
			Out: clampParam("curve.out", p.Out, 0, 255, 0),
		})
	}
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].In < pts[j].In })
	// later duplicates win
	uniq := pts[:0]
	for _, p := range pts {
		if n := len(uniq); n > 0 && uniq[n-1].In == p.In {
			uniq[n-1] = p
			continue
		}
		uniq = append(uniq, p)
	}
	pts = uniq
	if len(pts) < 2 {
		return IdentityLUT()
	}

	n := len(pts)
	delta := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		delta[i] = (pts[i+1].Out - pts[i].Out) / (pts[i+1].In - pts[i].In)
	}
	m := make([]float64, n)
	m[0], m[n-1] = delta[0], delta[n-2]
	for i := 1; i < n-1; i++ {
		if delta[i-1]*delta[i] <= 0 {
			m[i] = 0
		} else {
			m[i] = (delta[i-1] + delta[i]) / 2
		}
	}
	for i := 0; i < n-1; i++ {
		if delta[i] == 0 {
			m[i], m[i+1] = 0, 0
			continue
		}
		a, b := m[i]/delta[i], m[i+1]/delta[i]
		if s := a*a + b*b; s > 9 {
			t := 3 / math.Sqrt(s)
			m[i] = t * a * delta[i]
			m[i+1] = t * b * delta[i]
		}
	}

	var l LUT
	seg := 0
	for v := range l {
		x := float64(v)
		switch {
		case x <= pts[0].In:
			l[v] = clampRound(pts[0].Out)
			continue
		case x >= pts[n-1].In:
			l[v] = clampRound(pts[n-1].Out)
			continue
		}
		for seg < n-2 && x > pts[seg+1].In {
			seg++
		}
		p0, p1 := pts[seg], pts[seg+1]
		hSeg := p1.In - p0.In
		t := (x - p0.In) / hSeg
		t2, t3 := t*t, t*t*t
		y := (2*t3-3*t2+1)*p0.Out +
			(t3-2*t2+t)*hSeg*m[seg] +
			(-2*t3+3*t2)*p1.Out +
			(t3-t2)*hSeg*m[seg+1]
		l[v] = clampRound(y)
	}
	return l
}
