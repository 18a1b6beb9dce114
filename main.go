package main

import (
	"os"

	"github.com/gasparian/lsh-model-go/app"
	"github.com/sirupsen/logrus"

	// hdf5 corpora need cgo, so only the binary links them
	_ "github.com/gasparian/lsh-model-go/corpus/hdf5"
)

func main() {
	if err := app.New().Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}
