// Package hdf5 reads corpora stored in ann-benchmarks hdf5 files.
//
// Objects inside the ann-benchmarks hdf5:
// train
// test
// distances
// neighbors
//
// Importing the package registers the loader for ".hdf5" and ".h5"; it needs libhdf5 (cgo).
package hdf5

import (
	"github.com/gasparian/lsh-model-go/corpus"
	"github.com/pkg/errors"
	"gonum.org/v1/hdf5"
)

// DefaultDataset is the dataset read by Load
const DefaultDataset = "train"

func init() {
	corpus.Register(corpus.LoaderFunc(Load), ".hdf5", ".h5")
}

// Load reads the "train" dataset from path
func Load(path string) ([][]float64, error) {
	return LoadDataset(path, DefaultDataset)
}

// LoadDataset reads the 2-D float32 dataset from path and splits it into rows
func LoadDataset(path, datasetName string) ([][]float64, error) {
	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, errors.Wrapf(err, "open %q", path)
	}
	defer f.Close()

	flat, dims, err := GetVectorsFromHDF5(f, datasetName)
	if err != nil {
		return nil, errors.Wrapf(err, "read dataset %q from %q", datasetName, path)
	}
	if len(dims) != 2 {
		return nil, errors.Errorf("dataset %q must be 2-D, got %d dims", datasetName, len(dims))
	}
	rows, cols := int(dims[0]), int(dims[1])
	vecs := make([][]float64, rows)
	for i := range vecs {
		vecs[i] = ConvertTo64(flat[i*cols : (i+1)*cols])
	}
	return vecs, nil
}

// GetVectorsFromHDF5 returns flat dataset values and its extent
func GetVectorsFromHDF5(table *hdf5.File, datasetName string) ([]float32, []uint, error) {
	dataset, err := table.OpenDataset(datasetName)
	if err != nil {
		return nil, nil, err
	}
	defer dataset.Close()

	fileSpace := dataset.Space()
	defer fileSpace.Close()
	dims, _, err := fileSpace.SimpleExtentDims()
	if err != nil {
		return nil, nil, err
	}
	numTicks := fileSpace.SimpleExtentNPoints()

	vecs := make([]float32, numTicks)
	err = dataset.Read(&vecs)
	if err != nil {
		return nil, nil, err
	}
	return vecs, dims, nil
}

// ConvertTo64 __
func ConvertTo64(ar []float32) []float64 {
	newar := make([]float64, len(ar))
	var v float32
	var i int
	for i, v = range ar {
		newar[i] = float64(v)
	}
	return newar
}

// Save writes vecs as a 2-D float32 dataset; all rows must have equal length
func Save(path, datasetName string, vecs [][]float64) error {
	if len(vecs) == 0 {
		return errors.New("nothing to save")
	}
	cols := len(vecs[0])
	flat := make([]float32, 0, len(vecs)*cols)
	for i, vec := range vecs {
		if len(vec) != cols {
			return errors.Errorf("row %d has %d values, expected %d", i, len(vec), cols)
		}
		for _, v := range vec {
			flat = append(flat, float32(v))
		}
	}

	f, err := hdf5.CreateFile(path, hdf5.F_ACC_TRUNC)
	if err != nil {
		return errors.Wrapf(err, "create %q", path)
	}
	defer f.Close()

	space, err := hdf5.CreateSimpleDataspace([]uint{uint(len(vecs)), uint(cols)}, nil)
	if err != nil {
		return err
	}
	defer space.Close()

	dataset, err := f.CreateDataset(datasetName, hdf5.T_NATIVE_FLOAT, space)
	if err != nil {
		return errors.Wrapf(err, "create dataset %q", datasetName)
	}
	defer dataset.Close()
	return dataset.Write(&flat)
}
