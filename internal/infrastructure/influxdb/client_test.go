package influxdb_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/nerrad567/point-relay/internal/infrastructure/config"
	"github.com/nerrad567/point-relay/internal/infrastructure/influxdb"
)

// fakeInflux mimics the InfluxDB v2 ping and write endpoints.
type fakeInflux struct {
	mu       sync.Mutex
	writes   []writeRequest
	writeErr int // non-zero: status code to answer writes with
}

type writeRequest struct {
	org    string
	bucket string
	body   string
}

func (f *fakeInflux) server(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/api/v2/write", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.writeErr != 0 {
			http.Error(w, `{"message":"write rejected"}`, f.writeErr)
			return
		}
		body, _ := io.ReadAll(r.Body)
		f.writes = append(f.writes, writeRequest{
			org:    r.URL.Query().Get("org"),
			bucket: r.URL.Query().Get("bucket"),
			body:   string(body),
		})
		w.WriteHeader(http.StatusNoContent)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testStoreConfig(url string) config.StoreConfig {
	return config.StoreConfig{
		Backend: config.BackendInfluxDB,
		URL:     url,
		Token:   "test-token",
		Org:     "home",
	}
}

// ====== Connect ======

func TestConnect(t *testing.T) {
	fake := &fakeInflux{}
	srv := fake.server(t)

	client, err := influxdb.Connect(context.Background(), testStoreConfig(srv.URL))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := influxdb.Connect(context.Background(), testStoreConfig("http://127.0.0.1:1"))
	if !errors.Is(err, influxdb.ErrConfiguration) {
		t.Errorf("Connect() error = %v, want ErrConfiguration", err)
	}
}

// ====== Write ======

func TestWrite(t *testing.T) {
	fake := &fakeInflux{}
	srv := fake.server(t)

	client, err := influxdb.Connect(context.Background(), testStoreConfig(srv.URL))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	line := `sensor,host=a temp=21.5`
	if err := client.Write(context.Background(), "telemetry", line); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if len(fake.writes) != 1 {
		t.Fatalf("writes = %d, want 1", len(fake.writes))
	}
	got := fake.writes[0]
	if got.bucket != "telemetry" {
		t.Errorf("bucket = %q, want telemetry", got.bucket)
	}
	if got.org != "home" {
		t.Errorf("org = %q, want home", got.org)
	}
	if got.body != line {
		t.Errorf("body = %q, want %q", got.body, line)
	}
}

func TestWrite_MultipleDatabases(t *testing.T) {
	fake := &fakeInflux{}
	srv := fake.server(t)

	client, err := influxdb.Connect(context.Background(), testStoreConfig(srv.URL))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	if err := client.Write(ctx, "telemetry", `a v=1`); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := client.Write(ctx, "metrics", `b v=2`); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if fake.writes[0].bucket != "telemetry" || fake.writes[1].bucket != "metrics" {
		t.Errorf("buckets = %q, %q", fake.writes[0].bucket, fake.writes[1].bucket)
	}
}

func TestWrite_ServerRejects(t *testing.T) {
	fake := &fakeInflux{writeErr: http.StatusBadRequest}
	srv := fake.server(t)

	client, err := influxdb.Connect(context.Background(), testStoreConfig(srv.URL))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	err = client.Write(context.Background(), "telemetry", `bad line`)
	if !errors.Is(err, influxdb.ErrWriteFailed) {
		t.Errorf("Write() error = %v, want ErrWriteFailed", err)
	}
}
