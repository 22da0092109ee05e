// ABOUTME: Compact UMAP-style nonlinear dimensionality reduction to 2D
// ABOUTME: Exact kNN graph, fuzzy set weights, and SGD layout with negative sampling
package projector

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"time"
)

// umapConfig controls one reduction run
type umapConfig struct {
	nNeighbors   int
	minDist      float64
	spread       float64
	nEpochs      int
	learningRate float64
	negativeRate int
	seed         uint64 // 0 means time-seeded (non-deterministic runs)
}

// sigma search constants for the smooth-kNN calibration
const (
	smoothIters   = 64
	smoothTol     = 1e-5
	minSigma      = 1e-3
	gradientClamp = 4.0
	initRange     = 10.0
)

type edge struct {
	from, to int
	weight   float64
}

// fitUMAP reduces the data set to 2D coordinates, one per input row.
// Requires at least 3 rows; returns an error on numerical blow-up so the
// caller can fall back to a degraded layout.
func fitUMAP(data [][]float64, cfg umapConfig) ([][2]float64, error) {
	n := len(data)
	if n < 3 {
		return nil, fmt.Errorf("need at least 3 points, got %d", n)
	}
	k := cfg.nNeighbors
	if k >= n {
		k = n - 1
	}
	if k < 1 {
		k = 1
	}

	seed := cfg.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	neighbors, dists := nearestNeighbors(data, k)
	edges := fuzzyGraph(neighbors, dists, n, k)
	if len(edges) == 0 {
		return nil, fmt.Errorf("empty neighbor graph")
	}

	a, b := fitAB(cfg.spread, cfg.minDist)

	pos := make([][2]float64, n)
	for i := range pos {
		pos[i][0] = (rng.Float64()*2 - 1) * initRange
		pos[i][1] = (rng.Float64()*2 - 1) * initRange
	}

	optimizeLayout(pos, edges, a, b, cfg, rng)

	for _, p := range pos {
		if !finite2(p) {
			return nil, fmt.Errorf("layout diverged to non-finite coordinates")
		}
	}
	return pos, nil
}

// nearestNeighbors computes the exact k nearest neighbors of every row by
// euclidean distance. Collections are small enough that the O(n^2) scan is
// cheaper than an approximate index.
func nearestNeighbors(data [][]float64, k int) ([][]int, [][]float64) {
	n := len(data)
	neighbors := make([][]int, n)
	dists := make([][]float64, n)

	type cand struct {
		idx  int
		dist float64
	}
	for i := 0; i < n; i++ {
		cands := make([]cand, 0, n-1)
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			cands = append(cands, cand{idx: j, dist: euclidean(data[i], data[j])})
		}
		sort.Slice(cands, func(x, y int) bool { return cands[x].dist < cands[y].dist })

		neighbors[i] = make([]int, k)
		dists[i] = make([]float64, k)
		for c := 0; c < k; c++ {
			neighbors[i][c] = cands[c].idx
			dists[i][c] = cands[c].dist
		}
	}
	return neighbors, dists
}

// fuzzyGraph converts kNN distances into symmetrized membership weights:
// per-point distances are calibrated (smooth kNN) so each point's
// neighborhood sums to log2(k), then directed weights are combined with
// w = w1 + w2 - w1*w2.
func fuzzyGraph(neighbors [][]int, dists [][]float64, n, k int) []edge {
	target := math.Log2(float64(k))
	if target < 1 {
		target = 1
	}

	directed := make(map[[2]int]float64, n*k)
	for i := 0; i < n; i++ {
		rho := 0.0
		for _, d := range dists[i] {
			if d > 0 {
				rho = d
				break
			}
		}
		sigma := smoothSigma(dists[i], rho, target)
		for c, j := range neighbors[i] {
			d := dists[i][c] - rho
			if d < 0 {
				d = 0
			}
			directed[[2]int{i, j}] = math.Exp(-d / sigma)
		}
	}

	var edges []edge
	for key, w1 := range directed {
		i, j := key[0], key[1]
		if j < i {
			continue // handled from the mirror key, or below if one-sided
		}
		w2 := directed[[2]int{j, i}]
		edges = append(edges, edge{from: i, to: j, weight: w1 + w2 - w1*w2})
	}
	for key, w2 := range directed {
		i, j := key[0], key[1]
		if j > i {
			continue
		}
		if _, ok := directed[[2]int{j, i}]; ok {
			continue // already combined above
		}
		edges = append(edges, edge{from: j, to: i, weight: w2})
	}
	return edges
}

// smoothSigma binary-searches the bandwidth so that the neighborhood
// membership mass hits the target
func smoothSigma(dists []float64, rho, target float64) float64 {
	lo, hi, mid := 0.0, math.Inf(1), 1.0
	for iter := 0; iter < smoothIters; iter++ {
		sum := 0.0
		for _, d := range dists {
			adj := d - rho
			if adj < 0 {
				adj = 0
			}
			sum += math.Exp(-adj / mid)
		}
		if math.Abs(sum-target) < smoothTol {
			break
		}
		if sum > target {
			hi = mid
			mid = (lo + hi) / 2
		} else {
			lo = mid
			if math.IsInf(hi, 1) {
				mid *= 2
			} else {
				mid = (lo + hi) / 2
			}
		}
	}
	if mid < minSigma {
		mid = minSigma
	}
	return mid
}

// fitAB fits the rational attraction curve 1/(1+a*x^(2b)) to the ideal
// min-dist/spread membership falloff with a coarse-to-fine grid search
func fitAB(spread, minDist float64) (float64, float64) {
	const samples = 300
	xs := make([]float64, samples)
	ys := make([]float64, samples)
	for i := 0; i < samples; i++ {
		x := 3 * spread * float64(i+1) / samples
		xs[i] = x
		if x <= minDist {
			ys[i] = 1
		} else {
			ys[i] = math.Exp(-(x - minDist) / spread)
		}
	}

	loss := func(a, b float64) float64 {
		sum := 0.0
		for i := range xs {
			f := 1.0 / (1.0 + a*math.Pow(xs[i], 2*b))
			diff := f - ys[i]
			sum += diff * diff
		}
		return sum
	}

	bestA, bestB := 1.0, 1.0
	bestLoss := math.Inf(1)
	for ai := 0; ai < 60; ai++ {
		a := 0.01 * math.Pow(10, 3.3*float64(ai)/59) // 0.01 .. ~20
		for bi := 1; bi <= 60; bi++ {
			b := 0.05 * float64(bi)
			if l := loss(a, b); l < bestLoss {
				bestLoss, bestA, bestB = l, a, b
			}
		}
	}
	// Local refinement around the coarse optimum
	for step := 0.5; step > 0.01; step /= 2 {
		for _, a := range []float64{bestA * (1 - step), bestA, bestA * (1 + step)} {
			for _, b := range []float64{bestB * (1 - step), bestB, bestB * (1 + step)} {
				if a <= 0 || b <= 0 {
					continue
				}
				if l := loss(a, b); l < bestLoss {
					bestLoss, bestA, bestB = l, a, b
				}
			}
		}
	}
	return bestA, bestB
}

// optimizeLayout runs the SGD attraction/repulsion schedule over the edge
// set, sampling strong edges more often and repulsing random points
func optimizeLayout(pos [][2]float64, edges []edge, a, b float64, cfg umapConfig, rng *rand.Rand) {
	n := len(pos)
	maxW := 0.0
	for _, e := range edges {
		if e.weight > maxW {
			maxW = e.weight
		}
	}
	if maxW == 0 {
		return
	}

	epochsPerSample := make([]float64, len(edges))
	epochOfNext := make([]float64, len(edges))
	epochsPerNeg := make([]float64, len(edges))
	epochOfNextNeg := make([]float64, len(edges))
	for i, e := range edges {
		epochsPerSample[i] = maxW / e.weight
		epochOfNext[i] = epochsPerSample[i]
		epochsPerNeg[i] = epochsPerSample[i] / float64(cfg.negativeRate)
		epochOfNextNeg[i] = epochsPerNeg[i]
	}

	for epoch := 0; epoch < cfg.nEpochs; epoch++ {
		alpha := cfg.learningRate * (1 - float64(epoch)/float64(cfg.nEpochs))
		fe := float64(epoch)

		for ei := range edges {
			if epochOfNext[ei] > fe {
				continue
			}
			i, j := edges[ei].from, edges[ei].to

			// Attraction along the edge
			dSq := distSq2(pos[i], pos[j])
			if dSq > 0 {
				coeff := (-2 * a * b * math.Pow(dSq, b-1)) / (a*math.Pow(dSq, b) + 1)
				for d := 0; d < 2; d++ {
					grad := clamp(coeff*(pos[i][d]-pos[j][d]), -gradientClamp, gradientClamp)
					pos[i][d] += grad * alpha
					pos[j][d] -= grad * alpha
				}
			}
			epochOfNext[ei] += epochsPerSample[ei]

			// Repulsion from random points
			nNeg := int((fe - epochOfNextNeg[ei]) / epochsPerNeg[ei])
			if nNeg < 0 {
				nNeg = 0
			}
			for s := 0; s < nNeg; s++ {
				other := rng.IntN(n)
				if other == i {
					continue
				}
				dSq := distSq2(pos[i], pos[other])
				if dSq <= 0 {
					continue
				}
				coeff := (2 * b) / ((0.001 + dSq) * (a*math.Pow(dSq, b) + 1))
				for d := 0; d < 2; d++ {
					grad := clamp(coeff*(pos[i][d]-pos[other][d]), -gradientClamp, gradientClamp)
					pos[i][d] += grad * alpha
				}
			}
			epochOfNextNeg[ei] += float64(nNeg) * epochsPerNeg[ei]
		}
	}
}

func euclidean(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func distSq2(a, b [2]float64) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return dx*dx + dy*dy
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func finite2(p [2]float64) bool {
	return !math.IsNaN(p[0]) && !math.IsInf(p[0], 0) &&
		!math.IsNaN(p[1]) && !math.IsInf(p[1], 0)
}
