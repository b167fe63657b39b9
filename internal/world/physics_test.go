package world

import "testing"

func TestFallBreadNeverBelowFloor(t *testing.T) {
	bread := []Vec3{{Y: 10}, {Y: 5}, {Y: 0.3}, {Y: BreadFloor}}
	for _, dt := range []float64{0.05, 0.05, 0.2, 1.0, 3.0, 0.05} {
		FallBread(bread, dt)
		for i, b := range bread {
			if b.Y < BreadFloor {
				t.Fatalf("bread %d fell through the floor: y=%v after dt=%v", i, b.Y, dt)
			}
		}
	}
	for i, b := range bread {
		if b.Y != BreadFloor {
			t.Fatalf("bread %d should rest on the floor, y=%v", i, b.Y)
		}
	}
}

func TestFallBreadAccelerates(t *testing.T) {
	bread := []Vec3{{Y: BreadLaunchHeight}}
	prev := float32(BreadLaunchHeight)
	prevDrop := float32(0)
	for i := 0; i < 10; i++ {
		FallBread(bread, 0.05)
		drop := prev - bread[0].Y
		if drop <= prevDrop {
			t.Fatalf("step %d: drop %v not larger than previous %v", i, drop, prevDrop)
		}
		prev, prevDrop = bread[0].Y, drop
	}
}

func TestFallBreadZeroDtKeepsHeight(t *testing.T) {
	bread := []Vec3{{X: 1, Y: 7, Z: 2}}
	FallBread(bread, 0)
	if bread[0] != (Vec3{X: 1, Y: 7, Z: 2}) {
		t.Fatalf("bread moved with dt=0: %+v", bread[0])
	}
}

func TestIntersectsNeedsAllAxes(t *testing.T) {
	duck := Vec3{}
	if !intersects(duck, DuckHalfExtent, Vec3{X: 0.7}, BreadHalfExtent) {
		t.Fatalf("touching faces on x should count")
	}
	if intersects(duck, DuckHalfExtent, Vec3{X: 0.71}, BreadHalfExtent) {
		t.Fatalf("gap on x should not count")
	}
	if intersects(duck, DuckHalfExtent, Vec3{X: 0.1, Y: 0.1, Z: 2}, BreadHalfExtent) {
		t.Fatalf("overlap on x and y only should not count")
	}
}

func TestResolvePickupsScoresEachBreadOnce(t *testing.T) {
	first := &Duck{ID: 1}
	second := &Duck{ID: 2, Position: Vec3{X: 0.3}}
	loner := &Duck{ID: 3, Position: Vec3{X: 50}}

	bread := []Vec3{
		{X: 0.2, Y: 0.1},  // both first and second touch it
		{X: -0.4, Y: 0.1}, // first only
		{X: 20, Y: 0.1},   // nobody
	}
	left := ResolvePickups([]*Duck{first, second, loner}, bread)

	if first.Score != 2 {
		t.Fatalf("first score = %d, want 2", first.Score)
	}
	if second.Score != 0 {
		t.Fatalf("second score = %d, want 0 (bread already eaten)", second.Score)
	}
	if loner.Score != 0 {
		t.Fatalf("loner score = %d, want 0", loner.Score)
	}
	if len(left) != 1 || left[0].X != 20 {
		t.Fatalf("remaining bread = %+v, want only x=20", left)
	}
}

func TestResolvePickupsNoDucks(t *testing.T) {
	bread := []Vec3{{Y: 1}, {Y: 2}}
	if left := ResolvePickups(nil, bread); len(left) != 2 {
		t.Fatalf("bread disappeared without ducks: %+v", left)
	}
}
