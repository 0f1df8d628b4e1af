package track

import (
	"gonum.org/v1/gonum/mat"

	"github.com/arclight-sim/arclight/internal/geom"
)

// CVFilter is a constant-velocity Kalman filter over the state [x y vx vy]
// with position-only measurements. It is the documented alternative to the
// default differencing smoother, selected per tracker via the estimator
// tuning field, with explicit process and measurement noise.
type CVFilter struct {
	x *mat.VecDense // state [x, y, vx, vy]
	p *mat.Dense    // 4x4 covariance

	qPos, qVel float64 // process noise (σ²)
	r          float64 // measurement noise (σ²)
}

// NewCVFilter seeds a filter from a first plot. Position uncertainty starts
// high relative to velocity uncertainty.
func NewCVFilter(pos, vel geom.Vec2, cfg TrackerConfig) *CVFilter {
	return &CVFilter{
		x: mat.NewVecDense(4, []float64{pos.X, pos.Y, vel.X, vel.Y}),
		p: mat.NewDense(4, 4, []float64{
			10, 0, 0, 0,
			0, 10, 0, 0,
			0, 0, 1, 0,
			0, 0, 0, 1,
		}),
		qPos: cfg.ProcessNoisePos,
		qVel: cfg.ProcessNoiseVel,
		r:    cfg.MeasurementNoise,
	}
}

// Predict advances the state dt seconds under the constant-velocity model:
// x' = F·x, P' = F·P·Fᵀ + Q.
func (f *CVFilter) Predict(dt float64) {
	F := mat.NewDense(4, 4, []float64{
		1, 0, dt, 0,
		0, 1, 0, dt,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})

	var x mat.VecDense
	x.MulVec(F, f.x)
	f.x.CopyVec(&x)

	var fp, fpft mat.Dense
	fp.Mul(F, f.p)
	fpft.Mul(&fp, F.T())
	f.p.Copy(&fpft)

	f.p.Set(0, 0, f.p.At(0, 0)+f.qPos)
	f.p.Set(1, 1, f.p.At(1, 1)+f.qPos)
	f.p.Set(2, 2, f.p.At(2, 2)+f.qVel)
	f.p.Set(3, 3, f.p.At(3, 3)+f.qVel)
}

// Update folds in a position measurement z.
func (f *CVFilter) Update(z geom.Vec2) {
	H := mat.NewDense(2, 4, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
	})

	y := mat.NewVecDense(2, []float64{
		z.X - f.x.AtVec(0),
		z.Y - f.x.AtVec(1),
	})

	// S = H·P·Hᵀ + R
	var pht mat.Dense
	pht.Mul(f.p, H.T())
	var s mat.Dense
	s.Mul(H, &pht)
	s.Set(0, 0, s.At(0, 0)+f.r)
	s.Set(1, 1, s.At(1, 1)+f.r)

	var sInv mat.Dense
	if err := sInv.Inverse(&s); err != nil {
		// Singular innovation covariance: skip the update rather than
		// corrupt the state.
		return
	}

	// K = P·Hᵀ·S⁻¹
	var k mat.Dense
	k.Mul(&pht, &sInv)

	var ky mat.VecDense
	ky.MulVec(&k, y)
	f.x.AddVec(f.x, &ky)

	// P = (I − K·H)·P
	var kh mat.Dense
	kh.Mul(&k, H)
	var ikh mat.Dense
	ikh.Scale(-1, &kh)
	for i := 0; i < 4; i++ {
		ikh.Set(i, i, ikh.At(i, i)+1)
	}
	var np mat.Dense
	np.Mul(&ikh, f.p)
	f.p.Copy(&np)
}

// State returns the current position and velocity estimates.
func (f *CVFilter) State() (pos, vel geom.Vec2) {
	pos = geom.Vec2{X: f.x.AtVec(0), Y: f.x.AtVec(1)}
	vel = geom.Vec2{X: f.x.AtVec(2), Y: f.x.AtVec(3)}
	return pos, vel
}
