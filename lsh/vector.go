package lsh

import (
	"math"

	"gonum.org/v1/gonum/blas/blas64"
)

const tol = 1e-12

// NewVec creates new blas vector
func NewVec(data []float64) blas64.Vector {
	if data == nil {
		data = make([]float64, 0)
	}
	return blas64.Vector{
		N:    len(data),
		Inc:  1,
		Data: data,
	}
}

// copyVec returns blas vector backed by a fresh copy of data
func copyVec(data []float64) blas64.Vector {
	cp := make([]float64, len(data))
	copy(cp, data)
	return NewVec(cp)
}

// IsZeroVector returns true if every element of v is exactly zero
func IsZeroVector(v blas64.Vector) bool {
	return blas64.Asum(v) == 0.0
}

// L2 calculates l2-distance between two vectors
func L2(a, b []float64) float64 {
	res := copyVec(b)
	blas64.Axpy(-1.0, NewVec(a), res)
	return blas64.Nrm2(res)
}

// CosineDist calculates cosine distance btw the two given vectors;
// returns -1 when one of them has zero norm
func CosineDist(a, b []float64) float64 {
	av, bv := NewVec(a), NewVec(b)
	denom := blas64.Nrm2(av) * blas64.Nrm2(bv)
	if math.Abs(denom) <= tol {
		return -1
	}
	return 1.0 - blas64.Dot(av, bv)/denom
}
