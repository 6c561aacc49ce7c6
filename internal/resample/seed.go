package resample

import "hash/fnv"

// splitmix64 is the finalizer from the SplitMix64 generator. It is used as
// a mixing function so that derived seeds are decorrelated even when run
// seeds or iteration indices are small consecutive integers.
func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	return x ^ (x >> 31)
}

// DeriveSeed produces the RNG seed for one (iteration, subgroup) cell of a
// resampling run. It is a pure function of the run seed, the iteration
// index and the subgroup name, so iterations can execute in any order or in
// parallel without changing the draws.
//
// Keying on the subgroup name rather than its numerator/denominator position
// means swapping the two subgroups leaves each group's draws unchanged, and
// every per-iteration ratio inverts exactly.
func DeriveSeed(runSeed int64, iteration int, group string) int64 {
	h := fnv.New64a()
	h.Write([]byte(group))

	mixed := splitmix64(uint64(runSeed) ^ splitmix64(uint64(iteration)+1) ^ h.Sum64())
	return int64(mixed)
}
