// Package mathutil provides the vector math used by the retrieval layer.
//
// All similarity in this repository is expressed as cosine distance:
// 0 for identical directions, 1 for orthogonal vectors, 2 for opposite
// directions. The same metric is used at build time and at query time.
package mathutil

import "math"

// Dot computes the dot product of two equal-length vectors.
func Dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// Norm computes the L2 norm of a vector.
func Norm(v []float32) float32 {
	return float32(math.Sqrt(float64(Dot(v, v))))
}

// Normalize returns a unit vector in the same direction. The zero
// vector is returned unchanged.
func Normalize(v []float32) []float32 {
	n := Norm(v)
	if n == 0 {
		return v
	}
	out := make([]float32, len(v))
	for i := range v {
		out[i] = v[i] / n
	}
	return out
}

// CosineSimilarity returns the cosine of the angle between a and b.
// Zero vectors yield 0.
func CosineSimilarity(a, b []float32) float32 {
	na := Norm(a)
	nb := Norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	return Dot(a, b) / (na * nb)
}

// CosineDistance returns 1 - CosineSimilarity, so smaller means more
// similar. Range is [0, 2].
func CosineDistance(a, b []float32) float32 {
	return 1 - CosineSimilarity(a, b)
}
