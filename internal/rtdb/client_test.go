package rtdb

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewClient(server.URL, "")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, server
}

func TestRacksFoldsMixedTypes(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stations/Station1/racks.json" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		io.WriteString(w, `{"rack_1":"1","rack_2":0,"rack_3":true,"rack_4":null}`)
	}))

	racks, err := client.Racks(context.Background(), "Station1")
	if err != nil {
		t.Fatalf("racks: %v", err)
	}
	want := map[string]string{"rack_1": "1", "rack_2": "0", "rack_3": "true", "rack_4": ""}
	if len(racks) != len(want) {
		t.Fatalf("expected %d racks, got %d", len(want), len(racks))
	}
	for key, value := range want {
		if racks[key] != value {
			t.Fatalf("rack %s: expected %q, got %q", key, value, racks[key])
		}
	}
}

func TestRacksAbsentNode(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "null")
	}))

	racks, err := client.Racks(context.Background(), "Station1")
	if err != nil {
		t.Fatalf("racks: %v", err)
	}
	if racks == nil || len(racks) != 0 {
		t.Fatalf("expected empty map for absent node, got %v", racks)
	}
}

func TestRacksServerError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	if _, err := client.Racks(context.Background(), "Station1"); err == nil {
		t.Fatal("expected error on http 500")
	}
}

func TestRequestFlag(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/stations/Station1/request.json":
			io.WriteString(w, "true")
		default:
			io.WriteString(w, "null")
		}
	}))

	flag, err := client.RequestFlag(context.Background(), "Station1")
	if err != nil {
		t.Fatalf("request flag: %v", err)
	}
	if !flag {
		t.Fatal("expected true flag")
	}

	flag, err = client.RequestFlag(context.Background(), "Station2")
	if err != nil {
		t.Fatalf("request flag: %v", err)
	}
	if flag {
		t.Fatal("expected absent node to read as false")
	}
}

func TestSetRequestFlag(t *testing.T) {
	var gotMethod, gotPath, gotBody string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		payload, _ := io.ReadAll(r.Body)
		gotBody = string(payload)
	}))

	if err := client.SetRequestFlag(context.Background(), "Station1", false); err != nil {
		t.Fatalf("set request flag: %v", err)
	}
	if gotMethod != http.MethodPut {
		t.Fatalf("expected PUT, got %s", gotMethod)
	}
	if gotPath != "/stations/Station1/request.json" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotBody != "false" {
		t.Fatalf("expected body false, got %q", gotBody)
	}
}

func TestTriggerBuzzerWritesTrue(t *testing.T) {
	var gotPath, gotBody string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		payload, _ := io.ReadAll(r.Body)
		gotBody = string(payload)
	}))

	if err := client.TriggerBuzzer(context.Background(), "Station1"); err != nil {
		t.Fatalf("trigger buzzer: %v", err)
	}
	if gotPath != "/stations/Station1/buzzer.json" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotBody != "true" {
		t.Fatalf("expected body true, got %q", gotBody)
	}
}

func TestAuthTokenAppended(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("auth") != "s3cret" {
			t.Fatalf("expected auth query param, got %q", r.URL.RawQuery)
		}
		io.WriteString(w, "null")
	}))
	defer server.Close()

	client, err := NewClient(server.URL+"/", "s3cret")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.Racks(context.Background(), "Station1"); err != nil {
		t.Fatalf("racks: %v", err)
	}
}

func TestEmptyStationID(t *testing.T) {
	client, _ := newTestClient(t, http.NotFoundHandler())
	if _, err := client.Racks(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty station id")
	}
	if _, err := client.RequestFlag(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty station id")
	}
	if err := client.TriggerBuzzer(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty station id")
	}
}
