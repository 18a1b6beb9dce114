// Package codec defines the persisted format of model normals and thresholds.
//
// Blob layout: [magic "LSHM"][format version uint8][compression uint8][payload...],
// where payload is a msgpack envelope, zstd-compressed when compression is CompressionZstd.
package codec

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// FormatVersion is the current blob format version
const FormatVersion = 1

// Compression defines how the envelope is stored after the header
type Compression uint8

const (
	// CompressionNone stores raw msgpack
	CompressionNone Compression = 0
	// CompressionZstd stores zstd-compressed msgpack
	CompressionZstd Compression = 1
)

// Blob kinds
const (
	KindNormals    = "normals"
	KindThresholds = "thresholds"
)

const headerSize = 6

var magic = []byte("LSHM")

var (
	ErrBadMagic           = errors.New("not an lsh model blob")
	ErrUnsupportedVersion = errors.New("unsupported blob format version")
	ErrWrongKind          = errors.New("unexpected blob kind")
)

// Envelope is the msgpack payload of a blob
type Envelope struct {
	Version    uint32        `msgpack:"version"`
	Kind       string        `msgpack:"kind"`
	ModelID    string        `msgpack:"model_id"`
	Normals    [][][]float64 `msgpack:"normals,omitempty"`
	Thresholds [][]float64   `msgpack:"thresholds,omitempty"`
}

// EncodeNormals encodes per-table normal vectors (tables -> bits -> dimensions)
func EncodeNormals(modelID string, normals [][][]float64, compression Compression) ([]byte, error) {
	return encode(Envelope{
		Version: FormatVersion,
		Kind:    KindNormals,
		ModelID: modelID,
		Normals: normals,
	}, compression)
}

// EncodeThresholds encodes per-table thresholds (tables -> bits)
func EncodeThresholds(modelID string, thresholds [][]float64, compression Compression) ([]byte, error) {
	return encode(Envelope{
		Version:    FormatVersion,
		Kind:       KindThresholds,
		ModelID:    modelID,
		Thresholds: thresholds,
	}, compression)
}

// DecodeNormals decodes blob produced by EncodeNormals
func DecodeNormals(blob []byte) (string, [][][]float64, error) {
	env, err := decode(blob, KindNormals)
	if err != nil {
		return "", nil, err
	}
	return env.ModelID, env.Normals, nil
}

// DecodeThresholds decodes blob produced by EncodeThresholds
func DecodeThresholds(blob []byte) (string, [][]float64, error) {
	env, err := decode(blob, KindThresholds)
	if err != nil {
		return "", nil, err
	}
	return env.ModelID, env.Thresholds, nil
}

func encode(env Envelope, compression Compression) ([]byte, error) {
	payload, err := msgpack.Marshal(&env)
	if err != nil {
		return nil, errors.Wrapf(err, "marshal %s envelope", env.Kind)
	}
	switch compression {
	case CompressionNone:
	case CompressionZstd:
		payload, err = compressZstd(payload)
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.Errorf("unknown compression %d", compression)
	}
	buf := bytes.NewBuffer(make([]byte, 0, headerSize+len(payload)))
	buf.Write(magic)
	buf.WriteByte(FormatVersion)
	buf.WriteByte(byte(compression))
	buf.Write(payload)
	return buf.Bytes(), nil
}

func decode(blob []byte, kind string) (Envelope, error) {
	var env Envelope
	if len(blob) < headerSize || !bytes.Equal(blob[:len(magic)], magic) {
		return env, ErrBadMagic
	}
	if blob[4] != FormatVersion {
		return env, errors.Wrapf(ErrUnsupportedVersion, "got %d", blob[4])
	}
	payload := blob[headerSize:]
	var err error
	switch Compression(blob[5]) {
	case CompressionNone:
	case CompressionZstd:
		payload, err = decompressZstd(payload)
		if err != nil {
			return env, err
		}
	default:
		return env, errors.Errorf("unknown compression %d", blob[5])
	}
	if err := msgpack.Unmarshal(payload, &env); err != nil {
		return env, errors.Wrap(err, "unmarshal envelope")
	}
	if env.Kind != kind {
		return env, errors.Wrapf(ErrWrongKind, "expected %q, got %q", kind, env.Kind)
	}
	return env, nil
}
