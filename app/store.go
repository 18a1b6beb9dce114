package app

import (
	"time"

	"github.com/gasparian/lsh-model-go/config"
	"github.com/gasparian/lsh-model-go/store"
	"github.com/gasparian/lsh-model-go/store/bolt"
	"github.com/gasparian/lsh-model-go/store/file"
	"github.com/gasparian/lsh-model-go/store/purekv"
	"github.com/pkg/errors"
)

// OpenStore creates the blob store described by cfg
func OpenStore(cfg config.Store) (store.Store, error) {
	switch cfg.Kind {
	case "", config.StoreFile:
		return file.New(cfg.Path), nil
	case config.StoreBolt:
		s, err := bolt.Open(bolt.Config{
			Path:    cfg.Path,
			Bucket:  cfg.Bucket,
			Timeout: cfg.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StorePureKv:
		s := purekv.New(purekv.Config{
			Address: cfg.Address,
			Timeout: int(cfg.Timeout / time.Millisecond),
			Bucket:  cfg.Bucket,
		})
		if err := s.Open(); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, errors.Errorf("unknown store kind %q", cfg.Kind)
	}
}
