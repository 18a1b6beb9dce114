package purekv

import (
	"sync"

	"github.com/gasparian/lsh-model-go/store"
	pkv "github.com/gasparian/pure-kv-go/client"
	"github.com/pkg/errors"
)

const (
	defaultBucket  = "lsh-models"
	defaultTimeout = 500
)

var (
	unexpectedValueErr = errors.New("unexpected value type in pure-kv bucket")
)

// Config holds pure-kv server address, client timeout (ms) and the bucket name
type Config struct {
	Address string
	Timeout int
	Bucket  string
}

// PureKvStore keeps model blobs in a remote pure-kv bucket
type PureKvStore struct {
	mx     sync.Mutex
	config Config
	client *pkv.Client
}

// New creates the client; call Open before use
func New(config Config) *PureKvStore {
	if config.Bucket == "" {
		config.Bucket = defaultBucket
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	return &PureKvStore{
		config: config,
		client: pkv.New(config.Address, config.Timeout),
	}
}

// Open connects to the server and creates the bucket if it holds nothing yet
func (p *PureKvStore) Open() error {
	p.mx.Lock()
	defer p.mx.Unlock()
	err := p.client.Open()
	if err != nil {
		return errors.Wrapf(err, "connect to pure-kv at %q", p.config.Address)
	}
	// Create replaces the bucket with an empty one; a missing bucket has size 0
	size, err := p.client.Size(p.config.Bucket)
	if err != nil {
		return errors.Wrapf(err, "size of bucket %q", p.config.Bucket)
	}
	if size > 0 {
		return nil
	}
	err = p.client.Create(p.config.Bucket)
	if err != nil {
		return errors.Wrapf(err, "create bucket %q", p.config.Bucket)
	}
	return nil
}

// Put stores blob under key
func (p *PureKvStore) Put(key string, blob []byte) error {
	p.mx.Lock()
	defer p.mx.Unlock()
	err := p.client.Set(p.config.Bucket, key, blob)
	if err != nil {
		return errors.Wrapf(err, "put %q", key)
	}
	return nil
}

// Get returns blob stored under key
func (p *PureKvStore) Get(key string) ([]byte, error) {
	p.mx.Lock()
	defer p.mx.Unlock()
	tmpVal, ok := p.client.Get(p.config.Bucket, key)
	if !ok {
		return nil, errors.Wrapf(store.ErrNotFound, "%q", key)
	}
	blob, ok := tmpVal.([]byte)
	if !ok {
		return nil, errors.Wrapf(unexpectedValueErr, "%q", key)
	}
	return blob, nil
}

// Close shutdowns rpc client
func (p *PureKvStore) Close() error {
	p.mx.Lock()
	defer p.mx.Unlock()
	p.client.Close()
	return nil
}
