package game

import (
	"math"
	"math/rand"

	"warlock/internal/net"
)

const (
	// Spawns sit on a ring at this fraction of the safe radius.
	spawnRingFraction = 0.6
	// Random jitter applied to each spawn along the ring, in radians.
	spawnJitter = 0.2
)

// SpawnPoints returns n positions spread evenly around the arena centre,
// rotated by a random offset and shuffled so seats change between rounds.
func SpawnPoints(rng *rand.Rand, n int, radius float32) []net.Vec3 {
	if n <= 0 {
		return nil
	}
	ring := float64(radius) * spawnRingFraction
	offset := rng.Float64() * 2 * math.Pi
	step := 2 * math.Pi / float64(n)

	points := make([]net.Vec3, n)
	for i := range points {
		a := offset + step*float64(i) + (rng.Float64()*2-1)*spawnJitter
		points[i] = net.Vec3{
			X: float32(math.Sin(a) * ring),
			Z: float32(math.Cos(a) * ring),
		}
	}
	rng.Shuffle(n, func(i, j int) { points[i], points[j] = points[j], points[i] })
	return points
}

// InsideArena reports whether pos is on the safe platform.
func InsideArena(pos net.Vec3, radius float32) bool {
	return pos.Flat().Len() <= radius
}
