// Package annbench measures how well a trained lsh model separates sample data.
package annbench

import (
	"io"
	"sort"

	"github.com/cheggaaa/pb/v3"
	"github.com/gasparian/lsh-model-go/lsh"
	"github.com/pkg/errors"
)

// Hasher computes one hash per table
type Hasher interface {
	ComputeHashes(vec []float64) (map[int]uint64, error)
}

// PrecisionRecall returns ratio of relevant predictions over all predictions
// and over all true relevant items; both arrays MUST BE SORTED
func PrecisionRecall(prediction, groundTruth []int) (float64, float64) {
	valid := 0
	for _, val := range prediction {
		idx := sort.SearchInts(groundTruth, val)
		if idx < len(groundTruth) && groundTruth[idx] == val {
			valid++
		}
	}
	precision := 0.0
	if len(prediction) > 0 {
		precision = float64(valid) / float64(len(prediction))
	}
	recall := 0.0
	if len(groundTruth) > 0 {
		recall = float64(valid) / float64(len(groundTruth))
	}
	return precision, recall
}

// Report holds collision stats of vector pairs
type Report struct {
	Pairs    int `json:"pairs"`
	Collided int `json:"collided"`
	// CollisionRate is the share of pairs with equal hashes in at least one table
	CollisionRate float64 `json:"collisionRate"`
	// TableAgreement[t] is the share of pairs with equal hashes in table t
	TableAgreement []float64 `json:"tableAgreement"`
	MeanL2         float64   `json:"meanL2"`
	MeanCosineDist float64   `json:"meanCosineDist"`
}

func newBar(total int, progress io.Writer) *pb.ProgressBar {
	if progress == nil {
		return nil
	}
	return pb.New(total).SetWriter(progress).Start()
}

// CollisionRate hashes consecutive pairs (vecs[0], vecs[1]), (vecs[2], vecs[3]), ...
// and counts how often both members land in the same bucket.
// Progress bar is drawn into progress if it is not nil.
func CollisionRate(hasher Hasher, vecs [][]float64, progress io.Writer) (Report, error) {
	if len(vecs)%2 != 0 {
		return Report{}, errors.Errorf("pairs corpus must hold an even number of vectors, got %d", len(vecs))
	}
	report := Report{Pairs: len(vecs) / 2}
	if report.Pairs == 0 {
		return report, nil
	}
	bar := newBar(report.Pairs, progress)
	if bar != nil {
		defer bar.Finish()
	}

	var agreement []int
	var cosineCount int
	for i := 0; i < len(vecs); i += 2 {
		left, err := hasher.ComputeHashes(vecs[i])
		if err != nil {
			return Report{}, errors.Wrapf(err, "vector %d", i)
		}
		right, err := hasher.ComputeHashes(vecs[i+1])
		if err != nil {
			return Report{}, errors.Wrapf(err, "vector %d", i+1)
		}
		if agreement == nil {
			agreement = make([]int, len(left))
		}
		collided := false
		for t := range agreement {
			if left[t] == right[t] {
				agreement[t]++
				collided = true
			}
		}
		if collided {
			report.Collided++
		}
		report.MeanL2 += lsh.L2(vecs[i], vecs[i+1])
		if dist := lsh.CosineDist(vecs[i], vecs[i+1]); dist >= 0 {
			report.MeanCosineDist += dist
			cosineCount++
		}
		if bar != nil {
			bar.Increment()
		}
	}

	pairs := float64(report.Pairs)
	report.CollisionRate = float64(report.Collided) / pairs
	report.MeanL2 /= pairs
	if cosineCount > 0 {
		report.MeanCosineDist /= float64(cosineCount)
	}
	report.TableAgreement = make([]float64, len(agreement))
	for t, n := range agreement {
		report.TableAgreement[t] = float64(n) / pairs
	}
	return report, nil
}

// CandidateRecall treats base vectors sharing a bucket with the query in at least one table
// as its candidates and compares them with the true neighbors (indices into base).
// Returns precision and recall averaged over queries.
func CandidateRecall(hasher Hasher, base, queries [][]float64, neighbors [][]int, progress io.Writer) (float64, float64, error) {
	if len(queries) != len(neighbors) {
		return 0, 0, errors.Errorf("got %d queries but %d neighbor lists", len(queries), len(neighbors))
	}
	if len(queries) == 0 {
		return 0, 0, nil
	}
	baseHashes := make([]map[int]uint64, len(base))
	for i, vec := range base {
		hashes, err := hasher.ComputeHashes(vec)
		if err != nil {
			return 0, 0, errors.Wrapf(err, "base vector %d", i)
		}
		baseHashes[i] = hashes
	}

	bar := newBar(len(queries), progress)
	if bar != nil {
		defer bar.Finish()
	}
	precision, recall := 0.0, 0.0
	for i, query := range queries {
		queryHashes, err := hasher.ComputeHashes(query)
		if err != nil {
			return 0, 0, errors.Wrapf(err, "query %d", i)
		}
		candidates := make([]int, 0)
		for idx, hashes := range baseHashes {
			for t, hash := range queryHashes {
				if hashes[t] == hash {
					candidates = append(candidates, idx)
					break
				}
			}
		}
		groundTruth := append([]int(nil), neighbors[i]...)
		sort.Ints(groundTruth)
		p, r := PrecisionRecall(candidates, groundTruth)
		precision += p
		recall += r
		if bar != nil {
			bar.Increment()
		}
	}
	n := float64(len(queries))
	return precision / n, recall / n, nil
}
