package index

import "math"

// Metric selects the distance or similarity measure used to compare vectors.
type Metric int

const (
	// MetricInnerProduct ranks by dot product, descending. The usual choice
	// for asymmetric embeddings whose magnitudes carry signal.
	MetricInnerProduct Metric = iota

	// MetricCosine ranks by cosine similarity, descending. Vectors are
	// normalized at insert time.
	MetricCosine

	// MetricL2 ranks by Euclidean distance, ascending.
	MetricL2
)

func (m Metric) String() string {
	switch m {
	case MetricInnerProduct:
		return "inner-product"
	case MetricCosine:
		return "cosine"
	case MetricL2:
		return "l2"
	default:
		return "unknown"
	}
}

func (m Metric) valid() bool {
	return m == MetricInnerProduct || m == MetricCosine || m == MetricL2
}

// DotProduct computes the dot product of two equal-length vectors.
func DotProduct(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// SquaredL2 computes the squared Euclidean distance between two
// equal-length vectors.
func SquaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// Normalized returns a unit-length copy of v. A zero vector is returned as
// an unchanged copy.
func Normalized(v []float32) []float32 {
	out := make([]float32, len(v))
	mag := math.Sqrt(float64(DotProduct(v, v)))
	if mag == 0 {
		copy(out, v)
		return out
	}
	inv := float32(1.0 / mag)
	for i := range v {
		out[i] = v[i] * inv
	}
	return out
}

// dist maps both similarity metrics onto a distance so the graph traversal
// can always minimize: negated dot product for inner product and cosine
// (cosine vectors are unit length by then), squared L2 otherwise.
func (x *Index) dist(a, b []float32) float32 {
	if x.cfg.Metric == MetricL2 {
		return SquaredL2(a, b)
	}
	return -DotProduct(a, b)
}

// score converts an internal distance back to the caller-facing value:
// similarity for inner product and cosine, Euclidean distance for L2.
func (x *Index) score(d float32) float32 {
	if x.cfg.Metric == MetricL2 {
		return float32(math.Sqrt(float64(d)))
	}
	return -d
}
