package geoscore

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"math/rand"
)

// Salts keep the per-factor jitter streams independent of each other.
const (
	saltFootTraffic   = "footTraffic"
	saltSafety        = "safety"
	saltAccessibility = "accessibility"
	saltHourly        = "hourly"
	saltWeekly        = "weekly"
)

// jitter is a deterministic random stream derived from a coordinate and a salt.
// Identical inputs always replay the same sequence.
type jitter struct {
	rng *rand.Rand
}

func newJitter(c Coordinate, salt string) *jitter {
	h := fnv.New64a()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(c.Lat))
	_, _ = h.Write(buf[:])
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(c.Lng))
	_, _ = h.Write(buf[:])
	_, _ = h.Write([]byte(salt))
	return &jitter{rng: rand.New(rand.NewSource(int64(h.Sum64())))}
}

// pick returns an integer inside the closed band.
func (j *jitter) pick(b Band) int {
	return int(math.Round(float64(b.Min) + j.rng.Float64()*float64(b.Max-b.Min)))
}

// noise returns a float in [lo, hi).
func (j *jitter) noise(lo, hi float64) float64 {
	return lo + j.rng.Float64()*(hi-lo)
}

// competitionJitter is the sine hash applied to the competition base score.
// The result lies in [-6, 6].
func competitionJitter(c Coordinate) float64 {
	seed := math.Abs(math.Sin(c.Lat*12.9898+c.Lng*78.233) * 43758.5453)
	return math.Sin(seed*75) * 6
}
