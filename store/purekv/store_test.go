package purekv

import (
	"fmt"
	"net"
	"os"
	"testing"
	"time"

	"github.com/gasparian/lsh-model-go/lsh"
	"github.com/gasparian/lsh-model-go/store"
	srv "github.com/gasparian/pure-kv-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const persistTimeout = 1 // sec.

// address of the pure-kv server started by TestMain;
// the server registers itself in the default rpc server, so only one can run per process
var address string

func TestMain(m *testing.M) {
	os.Exit(runWithServer(m))
}

func runWithServer(m *testing.M) int {
	dbPath, err := os.MkdirTemp("", "lsh-purekv-test")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dbPath)

	port, err := freePort()
	if err != nil {
		panic(err)
	}
	server := srv.InitServer(
		port,
		persistTimeout,
		8, // number of shards for concurrent map
		dbPath,
	)
	go server.Run()
	defer func() {
		server.Close()
		// let the last dump finish before the db dir is removed
		time.Sleep(persistTimeout*time.Second + 500*time.Millisecond)
	}()

	address = fmt.Sprintf("127.0.0.1:%d", port)
	if err := waitForServer(address, 5*time.Second); err != nil {
		panic(err)
	}
	return m.Run()
}

func freePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

func waitForServer(addr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		conn, err := net.DialTimeout("tcp", addr, 100*time.Millisecond)
		if err == nil {
			return conn.Close()
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func openStore(t *testing.T, bucket string) *PureKvStore {
	t.Helper()
	s := New(Config{Address: address, Timeout: 500, Bucket: bucket})
	require.NoError(t, s.Open())
	return s
}

func TestPureKvStore(t *testing.T) {
	s := openStore(t, "lsh-models-test")
	defer s.Close()

	require.NoError(t, s.Put("normals", []byte{1, 2, 3}))
	blob, err := s.Get("normals")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, blob)

	require.NoError(t, s.Put("normals", []byte{4}))
	blob, err = s.Get("normals")
	require.NoError(t, err)
	assert.Equal(t, []byte{4}, blob)

	_, err = s.Get("missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestReopenKeepsBlobs(t *testing.T) {
	first := openStore(t, "lsh-models-reopen")
	require.NoError(t, first.Put("thresholds", []byte{7, 8}))
	require.NoError(t, first.Close())

	second := openStore(t, "lsh-models-reopen")
	defer second.Close()
	blob, err := second.Get("thresholds")
	require.NoError(t, err)
	assert.Equal(t, []byte{7, 8}, blob)
}

func TestModelRoundTripAcrossStores(t *testing.T) {
	config := lsh.Config{Tables: 2, BitsPerTable: 1, Dimensions: 1}
	saver := openStore(t, "lsh-models-model")
	model, err := lsh.New(config, lsh.TrainFromVectors([][]float64{{10}, {0}, {20}, {0}}), lsh.WithStore(saver))
	require.NoError(t, err)
	require.NoError(t, model.Save("normals", "thresholds"))
	require.NoError(t, saver.Close())

	loader := openStore(t, "lsh-models-model")
	defer loader.Close()
	loaded, err := lsh.New(config, lsh.LoadFrom("normals", "thresholds"), lsh.WithStore(loader))
	require.NoError(t, err)
	assert.Equal(t, model.ID(), loaded.ID())
	assert.Equal(t, [][][]float64{{{5}}, {{10}}}, loaded.Normals())
	assert.Equal(t, [][]float64{{25}, {100}}, loaded.Thresholds())

	hashes, err := loaded.ComputeHashes([]float64{100})
	require.NoError(t, err)
	assert.Equal(t, map[int]uint64{0: 1, 1: 1}, hashes)
}
