package world

import "math"

const (
	Gravity           = -5.0
	BreadLaunchHeight = 10.0
	BreadFloor        = 0.1
	DuckHalfExtent    = 0.5
	BreadHalfExtent   = 0.2
)

// FallBread moves every bread item down by one step of dt seconds.
// Speed is rebuilt from the distance fallen since launch (v^2 = 2gs) rather than stored.
func FallBread(bread []Vec3, dt float64) {
	for i := range bread {
		y := float64(bread[i].Y)
		velocity := -math.Sqrt(math.Abs(2 * Gravity * (BreadLaunchHeight - y)))
		y += velocity*dt + 0.5*Gravity*dt*dt
		bread[i].Y = float32(max(y, BreadFloor))
	}
}

// Box overlap on all three axes, touching faces count
func intersects(a Vec3, aHalf float32, b Vec3, bHalf float32) bool {
	return a.X-aHalf <= b.X+bHalf && a.X+aHalf >= b.X-bHalf &&
		a.Y-aHalf <= b.Y+bHalf && a.Y+aHalf >= b.Y-bHalf &&
		a.Z-aHalf <= b.Z+bHalf && a.Z+aHalf >= b.Z-bHalf
}

// ResolvePickups gives each duck one point per bread it touches and returns what is left.
// Ducks are checked in slice order, eaten bread is gone for later ducks. The order of the
// returned slice is not meaningful.
func ResolvePickups(ducks []*Duck, bread []Vec3) []Vec3 {
	for _, d := range ducks {
		i := 0
		for i < len(bread) {
			if intersects(d.Position, DuckHalfExtent, bread[i], BreadHalfExtent) {
				last := len(bread) - 1
				bread[i] = bread[last]
				bread = bread[:last]
				d.Score++
				continue
			}
			i++
		}
	}
	return bread
}
