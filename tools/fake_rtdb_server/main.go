package main

import (
	"encoding/json"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// fakeRTDBServer mimics a Firebase-style realtime database REST surface:
// GET/PUT on <path>.json with JSON bodies, null for absent nodes. Useful for
// poking the dashboard without a real project.
type fakeRTDBServer struct {
	latency  time.Duration
	failRate float64

	mu    sync.Mutex
	nodes map[string]json.RawMessage
}

func main() {
	addr := getenvDefault("FAKE_RTDB_ADDR", ":19090")
	latencyMs := getenvIntDefault("FAKE_RTDB_LATENCY_MS", 0)
	failRate := getenvFloatDefault("FAKE_RTDB_FAIL_RATE", 0)

	srv := &fakeRTDBServer{
		latency:  time.Duration(latencyMs) * time.Millisecond,
		failRate: failRate,
		nodes:    make(map[string]json.RawMessage),
	}
	srv.seed()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", srv.handleHealth)
	mux.HandleFunc("/", srv.handleNode)

	log.Printf("fake RTDB server listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal(err)
	}
}

// seed fills the two-station fleet with alternating full/empty racks and
// one pending stock request.
func (s *fakeRTDBServer) seed() {
	for i := 1; i <= 8; i++ {
		station := "Station1"
		if i > 4 {
			station = "Station2"
		}
		value := "1"
		if i%2 == 0 {
			value = "0"
		}
		s.nodes["stations/"+station+"/racks/rack_"+strconv.Itoa(i)] = json.RawMessage(value)
	}
	s.nodes["stations/Station1/request"] = json.RawMessage("true")
	s.nodes["stations/Station2/request"] = json.RawMessage("false")
}

func (s *fakeRTDBServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *fakeRTDBServer) handleNode(w http.ResponseWriter, r *http.Request) {
	if s.latency > 0 {
		time.Sleep(s.latency)
	}
	if s.failRate > 0 && rand.Float64() < s.failRate {
		http.Error(w, "simulated outage", http.StatusInternalServerError)
		return
	}

	path := strings.Trim(r.URL.Path, "/")
	if !strings.HasSuffix(path, ".json") {
		http.NotFound(w, r)
		return
	}
	path = strings.TrimSuffix(path, ".json")

	switch r.Method {
	case http.MethodGet:
		s.serveGet(w, path)
	case http.MethodPut:
		s.servePut(w, r, path)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *fakeRTDBServer) serveGet(w http.ResponseWriter, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	// Exact node first, then subtree assembly.
	if value, ok := s.nodes[path]; ok {
		_, _ = w.Write(value)
		return
	}
	subtree := make(map[string]json.RawMessage)
	prefix := path + "/"
	for key, value := range s.nodes {
		if strings.HasPrefix(key, prefix) {
			rest := strings.TrimPrefix(key, prefix)
			if !strings.Contains(rest, "/") {
				subtree[rest] = value
			}
		}
	}
	if len(subtree) == 0 {
		_, _ = w.Write([]byte("null"))
		return
	}
	_ = json.NewEncoder(w).Encode(subtree)
}

func (s *fakeRTDBServer) servePut(w http.ResponseWriter, r *http.Request, path string) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "bad body", http.StatusBadRequest)
		return
	}
	if !json.Valid(body) {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.nodes[path] = json.RawMessage(body)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvFloatDefault(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
