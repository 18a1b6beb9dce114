package lsh

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/blas/blas64"
)

func TestNewVec(t *testing.T) {
	t.Parallel()
	var v blas64.Vector
	v = NewVec([]float64{0.0, 42.0})
	if math.Abs(blas64.Asum(v)-42.0) > tol {
		t.Error("Corrupted conversion to blas vector")
	}
	v = NewVec(nil)
	if blas64.Asum(v) != 0.0 || v.N != 0 {
		t.Error("Corrupted conversion to blas vector: nil should return empty vector")
	}
}

func TestCopyVec(t *testing.T) {
	t.Parallel()
	data := []float64{1.0, 2.0}
	v := copyVec(data)
	data[0] = 42.0
	if v.Data[0] != 1.0 {
		t.Error("Copied vector must not share memory with the source slice")
	}
}

func TestL2(t *testing.T) {
	t.Parallel()
	l2 := L2([]float64{0.0, 0.0}, []float64{-4.0, 3.0})
	if math.Abs(l2-5.0) > tol {
		t.Error("L2 distance is wrong")
	}
}

func TestCosineDist(t *testing.T) {
	t.Parallel()
	v1 := []float64{0.0, 1.0}
	v3 := []float64{1.0, 0.0}
	v4 := []float64{0.0, -1.0}
	if math.Abs(CosineDist(v1, v1)-0.0) > tol {
		t.Error("Cosine distance must be 0.0 for equal vectors")
	}
	if math.Abs(CosineDist(v1, v3)-1.0) > tol {
		t.Error("Cosine distance must be 1.0 for orthogonal vectors")
	}
	if math.Abs(CosineDist(v1, v4)-2.0) > tol {
		t.Error("Cosine distance must be 2.0 for multidirectional vectors")
	}
	if CosineDist(v1, []float64{0.0, 0.0}) != -1 {
		t.Error("Cosine distance with zero vector must be -1")
	}
}

func TestIsZeroVec(t *testing.T) {
	t.Parallel()
	if !IsZeroVector(NewVec([]float64{0.0, 0.0})) {
		t.Fatal("Provided vector should be zero vector")
	}
	if IsZeroVector(NewVec([]float64{0.0, 1.0})) {
		t.Fatal("Provided vector should be non-zero vector")
	}
	if IsZeroVector(NewVec([]float64{-1.0, 1.0})) {
		t.Fatal("Vector with elements summing to zero is not a zero vector")
	}
}
