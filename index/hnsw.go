// Copyright 2025 Vaal AI Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package index

import (
	"container/heap"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
)

// Default construction parameters. EfConstruction and M follow the values
// the production knowledge bases are tuned to; EfSearch can be raised per
// index when recall matters more than latency.
const (
	DefaultM              = 64
	DefaultEfConstruction = 512
	DefaultEfSearch       = 128
	DefaultMaxElements    = 10000
	DefaultSeed           = 1
)

// Config holds the construction parameters for an Index.
//
// Dimension is required. Zero values for the remaining fields are replaced
// with the package defaults.
type Config struct {
	// Dimension is the fixed vector length. Required, must be positive.
	Dimension int

	// Metric selects how vectors are compared. Default is inner product.
	Metric Metric

	// MaxElements bounds how many vectors the index will hold.
	MaxElements int

	// M is the maximum number of connections per node above the base
	// layer; the base layer allows 2*M.
	M int

	// EfConstruction is the neighbor-list breadth while building. Higher
	// values improve recall at the cost of build latency.
	EfConstruction int

	// EfSearch is the neighbor-list breadth while querying. Raised to k
	// automatically when a query asks for more results.
	EfSearch int

	// Seed feeds the PRNG used for level assignment, making builds
	// reproducible. Default is 1.
	Seed int64
}

func (c Config) withDefaults() Config {
	if c.M == 0 {
		c.M = DefaultM
	}
	if c.EfConstruction == 0 {
		c.EfConstruction = DefaultEfConstruction
	}
	if c.EfSearch == 0 {
		c.EfSearch = DefaultEfSearch
	}
	if c.MaxElements == 0 {
		c.MaxElements = DefaultMaxElements
	}
	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}
	return c
}

// Result is one hit from a k-NN search. ID is the internal id assigned at
// insert time (the vector's position in the bulk-insert input). Score is a
// similarity for inner-product and cosine indexes, a distance for L2.
type Result struct {
	ID    int
	Score float32
}

// Index is an HNSW graph over a fixed-dimension vector space.
//
// Reads take a shared lock, so concurrent searches are safe. The index is
// intended to be filled once with BulkInsert and treated as immutable
// afterwards.
type Index struct {
	mu        sync.RWMutex
	cfg       Config
	levelMult float64
	rng       *rand.Rand

	vectors   [][]float32
	levels    []int
	neighbors [][][]int32 // node -> layer -> neighbor ids

	entryPoint int32
	maxLevel   int
}

// New creates an empty index.
func New(cfg Config) (*Index, error) {
	cfg = cfg.withDefaults()
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive, got %d", ErrInvalidConfig, cfg.Dimension)
	}
	if cfg.MaxElements <= 0 {
		return nil, fmt.Errorf("%w: max elements must be positive, got %d", ErrInvalidConfig, cfg.MaxElements)
	}
	if cfg.M <= 0 || cfg.EfConstruction <= 0 || cfg.EfSearch <= 0 {
		return nil, fmt.Errorf("%w: M, EfConstruction and EfSearch must be positive", ErrInvalidConfig)
	}
	if !cfg.Metric.valid() {
		return nil, fmt.Errorf("%w: unknown metric %d", ErrInvalidConfig, cfg.Metric)
	}

	return &Index{
		cfg:        cfg,
		levelMult:  1.0 / math.Log(float64(cfg.M)),
		rng:        rand.New(rand.NewSource(cfg.Seed)),
		entryPoint: -1,
		maxLevel:   -1,
	}, nil
}

// Size returns the number of vectors held.
func (x *Index) Size() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.vectors)
}

// Dimension returns the configured vector length.
func (x *Index) Dimension() int { return x.cfg.Dimension }

// Metric returns the configured distance metric.
func (x *Index) Metric() Metric { return x.cfg.Metric }

// Config returns a copy of the index configuration.
func (x *Index) Config() Config { return x.cfg }

// BulkInsert adds vectors to the index, assigning each the internal id equal
// to its position relative to the current size (0-based for a fresh index).
//
// All vectors are validated before any is inserted, so a failed call leaves
// the index unchanged. Returns ErrDimensionMismatch for a wrong-length
// vector and ErrCapacityExceeded when the batch would overflow MaxElements.
func (x *Index) BulkInsert(vectors [][]float32) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if len(vectors) == 0 {
		return nil
	}
	if len(x.vectors)+len(vectors) > x.cfg.MaxElements {
		return fmt.Errorf("%w: %d vectors exceed capacity %d",
			ErrCapacityExceeded, len(x.vectors)+len(vectors), x.cfg.MaxElements)
	}
	for i, v := range vectors {
		if len(v) != x.cfg.Dimension {
			return fmt.Errorf("%w: vector %d has dimension %d, index expects %d",
				ErrDimensionMismatch, i, len(v), x.cfg.Dimension)
		}
	}

	for _, v := range vectors {
		stored := make([]float32, len(v))
		copy(stored, v)
		if x.cfg.Metric == MetricCosine {
			stored = Normalized(stored)
		}
		id := int32(len(x.vectors))
		x.vectors = append(x.vectors, stored)
		x.insert(id)
	}
	return nil
}

// Search returns up to k nearest neighbors of query, best first. Results
// are ordered by descending similarity for inner-product and cosine indexes
// and by ascending distance for L2.
//
// k values of zero or less yield an empty result; k larger than the index
// size is capped at the size. Returns ErrDimensionMismatch for a
// wrong-length query and ErrEmptyIndex when nothing has been inserted.
func (x *Index) Search(query []float32, k int) ([]Result, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if len(query) != x.cfg.Dimension {
		return nil, fmt.Errorf("%w: query has dimension %d, index expects %d",
			ErrDimensionMismatch, len(query), x.cfg.Dimension)
	}
	if len(x.vectors) == 0 {
		return nil, ErrEmptyIndex
	}
	if k <= 0 {
		return []Result{}, nil
	}
	if k > len(x.vectors) {
		k = len(x.vectors)
	}

	q := query
	if x.cfg.Metric == MetricCosine {
		q = Normalized(query)
	}

	curr := x.entryPoint
	currDist := x.dist(q, x.vectors[curr])
	for level := x.maxLevel; level > 0; level-- {
		curr, currDist = x.greedyDescend(q, curr, currDist, level)
	}

	ef := x.cfg.EfSearch
	if ef < k {
		ef = k
	}
	candidates := x.searchLayer(q, curr, ef, 0)
	if len(candidates) > k {
		candidates = candidates[:k]
	}

	results := make([]Result, len(candidates))
	for i, c := range candidates {
		results[i] = Result{ID: int(c.id), Score: x.score(c.dist)}
	}
	return results, nil
}

// insert wires one vector into the graph. Caller holds the write lock and
// has already appended the vector at position id.
func (x *Index) insert(id int32) {
	level := x.randomLevel()
	x.levels = append(x.levels, level)
	x.neighbors = append(x.neighbors, make([][]int32, level+1))

	if x.entryPoint < 0 {
		x.entryPoint = id
		x.maxLevel = level
		return
	}

	vec := x.vectors[id]
	curr := x.entryPoint
	currDist := x.dist(vec, x.vectors[curr])

	for l := x.maxLevel; l > level; l-- {
		curr, currDist = x.greedyDescend(vec, curr, currDist, l)
	}

	for l := min(level, x.maxLevel); l >= 0; l-- {
		candidates := x.searchLayer(vec, curr, x.cfg.EfConstruction, l)
		x.connect(id, candidates, l)
		if len(candidates) > 0 {
			curr = candidates[0].id
			currDist = candidates[0].dist
		}
	}

	if level > x.maxLevel {
		x.maxLevel = level
		x.entryPoint = id
	}
}

// randomLevel draws a node level with the HNSW geometric distribution:
// floor(-ln(U) * levelMult).
func (x *Index) randomLevel() int {
	u := x.rng.Float64()
	if u == 0 {
		u = math.SmallestNonzeroFloat64
	}
	return int(math.Floor(-math.Log(u) * x.levelMult))
}

func (x *Index) neighborsAt(id int32, level int) []int32 {
	lists := x.neighbors[id]
	if level >= len(lists) {
		return nil
	}
	return lists[level]
}

// greedyDescend moves to the closest neighbor repeatedly until no neighbor
// improves on the current distance.
func (x *Index) greedyDescend(q []float32, ep int32, epDist float32, level int) (int32, float32) {
	for changed := true; changed; {
		changed = false
		for _, nb := range x.neighborsAt(ep, level) {
			d := x.dist(q, x.vectors[nb])
			if d < epDist {
				ep = nb
				epDist = d
				changed = true
			}
		}
	}
	return ep, epDist
}

type graphCandidate struct {
	id   int32
	dist float32
}

// candidateMinHeap orders by ascending distance for candidate expansion.
type candidateMinHeap []graphCandidate

func (h candidateMinHeap) Len() int           { return len(h) }
func (h candidateMinHeap) Less(i, j int) bool { return h[i].dist < h[j].dist }
func (h candidateMinHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *candidateMinHeap) Push(v any)        { *h = append(*h, v.(graphCandidate)) }
func (h *candidateMinHeap) Pop() any {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// candidateMaxHeap orders by descending distance for result eviction.
type candidateMaxHeap []graphCandidate

func (h candidateMaxHeap) Len() int           { return len(h) }
func (h candidateMaxHeap) Less(i, j int) bool { return h[i].dist > h[j].dist }
func (h candidateMaxHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *candidateMaxHeap) Push(v any)        { *h = append(*h, v.(graphCandidate)) }
func (h *candidateMaxHeap) Pop() any {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// searchLayer implements SEARCH-LAYER (Malkov & Yashunin, Algorithm 2) with
// the dual-heap formulation: a min-heap drives expansion while a bounded
// max-heap keeps the ef best results. Output is sorted by ascending
// distance with id as tiebreak so traversal order never leaks into results.
func (x *Index) searchLayer(q []float32, ep int32, ef, level int) []graphCandidate {
	visited := make([]bool, len(x.vectors))
	visited[ep] = true

	epDist := x.dist(q, x.vectors[ep])
	candidates := &candidateMinHeap{{id: ep, dist: epDist}}
	heap.Init(candidates)
	results := &candidateMaxHeap{{id: ep, dist: epDist}}
	heap.Init(results)

	for candidates.Len() > 0 {
		closest := heap.Pop(candidates).(graphCandidate)
		if closest.dist > (*results)[0].dist {
			break
		}

		for _, nb := range x.neighborsAt(closest.id, level) {
			if visited[nb] {
				continue
			}
			visited[nb] = true

			d := x.dist(q, x.vectors[nb])
			if results.Len() < ef || d < (*results)[0].dist {
				heap.Push(candidates, graphCandidate{id: nb, dist: d})
				heap.Push(results, graphCandidate{id: nb, dist: d})
				if results.Len() > ef {
					heap.Pop(results)
				}
			}
		}
	}

	out := make([]graphCandidate, results.Len())
	for i := results.Len() - 1; i >= 0; i-- {
		out[i] = heap.Pop(results).(graphCandidate)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].dist != out[j].dist {
			return out[i].dist < out[j].dist
		}
		return out[i].id < out[j].id
	})
	return out
}

// connect links a new node to its nearest candidates at one layer,
// bidirectionally, bounded by M (2*M at the base layer).
func (x *Index) connect(id int32, candidates []graphCandidate, level int) {
	maxConn := x.cfg.M
	if level == 0 {
		maxConn *= 2
	}

	n := min(len(candidates), maxConn)
	for _, c := range candidates[:n] {
		x.addNeighbor(id, c.id, level, maxConn)
		x.addNeighbor(c.id, id, level, maxConn)
	}
}

// addNeighbor appends a link, evicting the farthest existing link when the
// node is at capacity.
func (x *Index) addNeighbor(from, to int32, level, maxConn int) {
	list := x.neighbors[from][level]
	for _, nb := range list {
		if nb == to {
			return
		}
	}

	list = append(list, to)
	if len(list) > maxConn {
		base := x.vectors[from]
		worst := 0
		worstDist := x.dist(base, x.vectors[list[0]])
		for i := 1; i < len(list); i++ {
			d := x.dist(base, x.vectors[list[i]])
			if d > worstDist {
				worst = i
				worstDist = d
			}
		}
		list[worst] = list[len(list)-1]
		list = list[:len(list)-1]
	}
	x.neighbors[from][level] = list
}
