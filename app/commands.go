package app

import (
	"encoding/json"
	"io"

	"github.com/cheggaaa/pb/v3"
	"github.com/gasparian/lsh-model-go/annbench"
	"github.com/gasparian/lsh-model-go/codec"
	"github.com/gasparian/lsh-model-go/corpus"
	"github.com/gasparian/lsh-model-go/lsh"
	"github.com/gasparian/lsh-model-go/store"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// hashChunk is the number of vectors hashed between progress bar updates
const hashChunk = 4096

var modelFlags = []cli.Flag{
	&cli.StringFlag{
		Name:     "normals",
		Usage:    "store key of the normals blob",
		Required: true,
	},
	&cli.StringFlag{
		Name:     "thresholds",
		Usage:    "store key of the thresholds blob",
		Required: true,
	},
}

var progressFlag = &cli.BoolFlag{
	Name:  "no-progress",
	Usage: "do not draw the progress bar",
}

// ModelInfo is printed by train and inspect
type ModelInfo struct {
	ID             string `json:"id"`
	Tables         int    `json:"tables"`
	BitsPerTable   int    `json:"bitsPerTable"`
	Dimensions     int    `json:"dimensions"`
	DegenerateBits int    `json:"degenerateBits"`
}

// HashLine is a single line of the hash command output
type HashLine struct {
	Index  int            `json:"index"`
	Hashes map[int]uint64 `json:"hashes"`
}

func trainCommand(tool *Tool) *cli.Command {
	return &cli.Command{
		Name:  "train",
		Usage: "derive hyperplanes from a sample corpus of query/answer pairs and save them",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     "corpus",
				Usage:    "sample corpus `FILE` (.fvecs, .msgpack or .hdf5)",
				Required: true,
			},
		}, modelFlags...),
		Action: tool.train,
	}
}

func hashCommand(tool *Tool) *cli.Command {
	return &cli.Command{
		Name:   "hash",
		Usage:  "print hashes of every vector of the input file as JSON lines",
		Flags:  append([]cli.Flag{&cli.StringFlag{Name: "input", Usage: "vectors `FILE`", Required: true}, progressFlag}, modelFlags...),
		Action: tool.hash,
	}
}

func evalCommand(tool *Tool) *cli.Command {
	return &cli.Command{
		Name:   "eval",
		Usage:  "report how often consecutive vector pairs of the file share a bucket",
		Flags:  append([]cli.Flag{&cli.StringFlag{Name: "pairs", Usage: "pairs `FILE`", Required: true}, progressFlag}, modelFlags...),
		Action: tool.eval,
	}
}

func inspectCommand(tool *Tool) *cli.Command {
	return &cli.Command{
		Name:   "inspect",
		Usage:  "load a saved model and print its shape",
		Flags:  modelFlags,
		Action: tool.inspect,
	}
}

func (t *Tool) options(s store.Store) []lsh.Option {
	compression := codec.CompressionNone
	if t.Config.Compress {
		compression = codec.CompressionZstd
	}
	return []lsh.Option{
		lsh.WithLogger(t.Logger),
		lsh.WithStore(s),
		lsh.WithMetrics(t.Metrics),
		lsh.WithCompression(compression),
	}
}

// withModel validates the config, opens the store, loads the model and passes it to fn
func (t *Tool) withModel(c *cli.Context, fn func(*lsh.Model) error) error {
	if err := t.Config.Validate(); err != nil {
		return err
	}
	s, err := OpenStore(t.Config.Store)
	if err != nil {
		return err
	}
	defer s.Close()
	model, err := lsh.New(t.Config.Model, lsh.LoadFrom(c.String("normals"), c.String("thresholds")), t.options(s)...)
	if err != nil {
		return err
	}
	return fn(model)
}

func (t *Tool) progress(c *cli.Context) io.Writer {
	if c.Bool("no-progress") {
		return nil
	}
	return c.App.ErrWriter
}

func (t *Tool) train(c *cli.Context) error {
	if err := t.Config.Validate(); err != nil {
		return err
	}
	s, err := OpenStore(t.Config.Store)
	if err != nil {
		return err
	}
	defer s.Close()
	model, err := lsh.New(t.Config.Model, lsh.TrainFrom(c.String("corpus")), t.options(s)...)
	if err != nil {
		return err
	}
	if err := model.Save(c.String("normals"), c.String("thresholds")); err != nil {
		return err
	}
	return printJSON(c.App.Writer, modelInfo(model))
}

func (t *Tool) hash(c *cli.Context) error {
	return t.withModel(c, func(model *lsh.Model) error {
		input := c.String("input")
		vecs, err := corpus.Open(input)
		if err != nil {
			return err
		}
		var bar *pb.ProgressBar
		if w := t.progress(c); w != nil {
			bar = pb.New(len(vecs)).SetWriter(w).Start()
			defer bar.Finish()
		}
		enc := json.NewEncoder(c.App.Writer)
		for start := 0; start < len(vecs); start += hashChunk {
			end := min(start+hashChunk, len(vecs))
			hashes, err := model.ComputeHashesBatch(c.Context, vecs[start:end], t.Config.Workers)
			if err != nil {
				return errors.Wrapf(err, "hash vectors [%d, %d) of %q", start, end, input)
			}
			for i, h := range hashes {
				if err := enc.Encode(HashLine{Index: start + i, Hashes: h}); err != nil {
					return errors.Wrap(err, "write hashes")
				}
			}
			if bar != nil {
				bar.Add(end - start)
			}
		}
		t.Logger.WithFields(logrus.Fields{
			"action":  "lsh_hash",
			"input":   input,
			"vectors": len(vecs),
		}).Info("vectors hashed")
		return nil
	})
}

func (t *Tool) eval(c *cli.Context) error {
	return t.withModel(c, func(model *lsh.Model) error {
		vecs, err := corpus.Open(c.String("pairs"))
		if err != nil {
			return err
		}
		report, err := annbench.CollisionRate(model, vecs, t.progress(c))
		if err != nil {
			return err
		}
		return printJSON(c.App.Writer, report)
	})
}

func (t *Tool) inspect(c *cli.Context) error {
	return t.withModel(c, func(model *lsh.Model) error {
		return printJSON(c.App.Writer, modelInfo(model))
	})
}

func modelInfo(model *lsh.Model) ModelInfo {
	config := model.Config()
	return ModelInfo{
		ID:             model.ID(),
		Tables:         config.Tables,
		BitsPerTable:   config.BitsPerTable,
		Dimensions:     config.Dimensions,
		DegenerateBits: model.DegenerateBits(),
	}
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "write output")
	}
	return nil
}
