package fxcanvas

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular (determinant ~ 0).
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// transformVector applies only the linear part of an affine matrix.
func transformVector(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y, m[1]*x + m[3]*y
}

// linearPart strips the translation from m.
func linearPart(m [6]float64) [6]float64 {
	return [6]float64{m[0], m[1], m[2], m[3], 0, 0}
}

// rotationMatrix returns a pure rotation by angle radians.
func rotationMatrix(angle float64) [6]float64 {
	sin, cos := math.Sincos(angle)
	return [6]float64{cos, sin, -sin, cos, 0, 0}
}

// scaleMatrix returns a uniform scale by k.
func scaleMatrix(k float64) [6]float64 {
	return [6]float64{k, 0, 0, k, 0, 0}
}

// aroundPivot conjugates m so it acts about pivot instead of the origin:
// Translate(pivot) * m * Translate(-pivot).
func aroundPivot(m [6]float64, pivot Vec2) [6]float64 {
	toOrigin := [6]float64{1, 0, 0, 1, -pivot.X, -pivot.Y}
	back := [6]float64{1, 0, 0, 1, pivot.X, pivot.Y}
	return multiplyAffine(back, multiplyAffine(m, toOrigin))
}
