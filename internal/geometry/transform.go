package geometry

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Transform returns the homogeneous frame-to-world matrix of frame:
//
//	[cos θ  -sin θ  x]
//	[sin θ   cos θ  y]
//	[  0       0    1]
func Transform(frame Pose2D) *mat.Dense {
	s, c := math.Sincos(frame.Heading)
	return mat.NewDense(3, 3, []float64{
		c, -s, frame.X,
		s, c, frame.Y,
		0, 0, 1,
	})
}

// InverseTransform returns the world-to-frame matrix of frame. The rotation
// block is orthonormal, so the inverse is taken in closed form.
func InverseTransform(frame Pose2D) *mat.Dense {
	s, c := math.Sincos(frame.Heading)
	return mat.NewDense(3, 3, []float64{
		c, s, -(c*frame.X + s*frame.Y),
		-s, c, s*frame.X - c*frame.Y,
		0, 0, 1,
	})
}

func apply(m mat.Matrix, x, y float64) Point {
	var out mat.VecDense
	out.MulVec(m, mat.NewVecDense(3, []float64{x, y, 1}))
	return Point{X: out.AtVec(0), Y: out.AtVec(1)}
}

// FrameRotate multiplies object's position by frame's frame-to-world matrix,
// i.e. T·p. This is the forward transform the lab scripts used as "relative
// pose"; it is not the position of object as seen from frame (see
// WorldToFrame). The heading is not carried and inputs are not validated.
func FrameRotate(object, frame Pose2D) Point {
	return apply(Transform(frame), object.X, object.Y)
}

// WorldToFrame expresses object, given in world coordinates, in the
// coordinates of frame: T⁻¹·p, with the heading made relative as well.
func WorldToFrame(object, frame Pose2D) Pose2D {
	p := apply(InverseTransform(frame), object.X, object.Y)
	return Pose2D{X: p.X, Y: p.Y, Heading: WrapRadians(object.Heading - frame.Heading)}
}

// FrameToWorld is the inverse of WorldToFrame: local is given in the
// coordinates of frame and is returned in world coordinates.
func FrameToWorld(local, frame Pose2D) Pose2D {
	p := apply(Transform(frame), local.X, local.Y)
	return Pose2D{X: p.X, Y: p.Y, Heading: WrapRadians(local.Heading + frame.Heading)}
}
