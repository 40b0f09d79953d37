package server

import (
	"bufio"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv, err := NewServer(0, Options{SceneID: "single", Width: 40, Height: 40, Workers: 2})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewServer_UnknownScene(t *testing.T) {
	if _, err := NewServer(0, Options{SceneID: "missing"}); err == nil {
		t.Error("Expected error for unknown scene")
	}
}

func TestHandleHealth(t *testing.T) {
	h := newTestServer(t).Handler()
	rec := do(t, h, http.MethodGet, "/api/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("Unexpected body %s", rec.Body.String())
	}
}

func TestHandleScenes(t *testing.T) {
	h := newTestServer(t).Handler()
	rec := do(t, h, http.MethodGet, "/api/scenes", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var response struct {
		Groups []struct {
			Name   string `json:"name"`
			Scenes []struct {
				ID string `json:"id"`
			} `json:"scenes"`
		} `json:"groups"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}

	found := false
	for _, group := range response.Groups {
		for _, s := range group.Scenes {
			if s.ID == "default" {
				found = true
			}
		}
	}
	if !found {
		t.Errorf("Expected the default scene in %s", rec.Body.String())
	}
}

func TestHandleFrame(t *testing.T) {
	h := newTestServer(t).Handler()
	rec := do(t, h, http.MethodGet, "/api/frame", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "image/png" {
		t.Errorf("Expected image/png, got %s", rec.Header().Get("Content-Type"))
	}
	if rec.Header().Get("X-Frame-Sequence") != "1" {
		t.Errorf("Expected sequence 1, got %s", rec.Header().Get("X-Frame-Sequence"))
	}

	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("Invalid PNG: %v", err)
	}
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 40 {
		t.Errorf("Expected 40x40, got %v", img.Bounds())
	}
	if r, g, b, _ := img.At(20, 20).RGBA(); r == 0 && g == 0 && b == 0 {
		t.Error("Expected the sphere at the center of the frame")
	}
}

func TestHandleIntent(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := do(t, h, http.MethodPost, "/api/intent", `{"type": "move_shape", "index": 0, "axis": "x", "value": 10000}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response IntentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if response.Sequence != 2 {
		t.Errorf("Expected sequence 2, got %d", response.Sequence)
	}
	if response.Stats.TotalPixels != 40*40 || response.Stats.HitPixels != 0 {
		t.Errorf("Expected 1600 pixels and no hits, got %+v", response.Stats)
	}

	frame := do(t, h, http.MethodGet, "/api/frame", "")
	img, err := png.Decode(frame.Body)
	if err != nil {
		t.Fatalf("Invalid PNG: %v", err)
	}
	if r, g, b, _ := img.At(20, 20).RGBA(); r != 0 || g != 0 || b != 0 {
		t.Error("Expected background after moving the sphere away")
	}
}

func TestHandleIntent_Recolor(t *testing.T) {
	h := newTestServer(t).Handler()

	for _, body := range []string{
		`{"type": "recolor_shape", "index": 0, "channel": "red", "value": 0}`,
		`{"type": "recolor_light", "channel": "green", "value": 10}`,
	} {
		if rec := do(t, h, http.MethodPost, "/api/intent", body); rec.Code != http.StatusOK {
			t.Fatalf("Expected 200 for %s, got %d: %s", body, rec.Code, rec.Body.String())
		}
	}

	var state SceneState
	if err := json.Unmarshal(do(t, h, http.MethodGet, "/api/scene", "").Body.Bytes(), &state); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if got := state.Spheres[0].Color; got != [3]uint8{0, 0, 32} {
		t.Errorf("Expected sphere color [0 0 32], got %v", got)
	}
	if got := state.Light.Color; got != [3]uint8{255, 10, 255} {
		t.Errorf("Expected light color [255 10 255], got %v", got)
	}
}

func TestHandleIntent_Errors(t *testing.T) {
	h := newTestServer(t).Handler()

	tests := []struct {
		name   string
		method string
		body   string
		status int
	}{
		{"wrong method", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"bad json", http.MethodPost, `{"type":`, http.StatusBadRequest},
		{"unknown type", http.MethodPost, `{"type": "explode"}`, http.StatusBadRequest},
		{"bad index", http.MethodPost, `{"type": "resize_shape", "index": 7, "delta": 5}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, "/api/intent", tt.body)
			if rec.Code != tt.status {
				t.Errorf("Expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandleInspect(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := do(t, h, http.MethodGet, "/api/inspect?x=20&y=20", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var hit InspectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &hit); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if !hit.Hit || hit.ShapeIndex != 0 || hit.GeometryType != "sphere" {
		t.Errorf("Expected a hit on sphere 0, got %+v", hit)
	}
	if hit.Distance <= 0 {
		t.Errorf("Expected a positive distance, got %f", hit.Distance)
	}

	rec = do(t, h, http.MethodGet, "/api/inspect?x=0&y=0", "")
	var miss InspectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &miss); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if miss.Hit || miss.ShapeIndex != -1 || miss.Color != "#000000" {
		t.Errorf("Expected a black miss, got %+v", miss)
	}

	for _, target := range []string{"/api/inspect", "/api/inspect?x=1", "/api/inspect?x=40&y=0", "/api/inspect?x=a&y=0"} {
		if rec := do(t, h, http.MethodGet, target, ""); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestHandleScene(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := do(t, h, http.MethodGet, "/api/scene", "")
	var state SceneState
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if state.SceneID != "single" || len(state.Spheres) != 1 || state.Spheres[0].Radius != 100 {
		t.Errorf("Unexpected state %+v", state)
	}

	rec = do(t, h, http.MethodPost, "/api/scene?id=default", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if state.SceneID != "default" || len(state.Spheres) != 5 {
		t.Errorf("Expected the five-sphere scene, got %+v", state)
	}
	if state.Width != 40 || state.Height != 40 {
		t.Errorf("Expected the configured 40x40 size, got %dx%d", state.Width, state.Height)
	}

	if rec := do(t, h, http.MethodPost, "/api/scene?id=nope", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown scene, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/api/scene", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without id, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodDelete, "/api/scene", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", rec.Code)
	}
}

// readEvent returns the name and data of the next SSE event
func readEvent(t *testing.T, scanner *bufio.Scanner) (string, string) {
	t.Helper()
	var event, data string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "" && event != "":
			return event, data
		}
	}
	t.Fatalf("Stream ended: %v", scanner.Err())
	return "", ""
}

func TestHandleEvents(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/events", nil)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.Header.Get("Content-Type") != "text/event-stream" {
		t.Errorf("Expected text/event-stream, got %s", resp.Header.Get("Content-Type"))
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64<<10), 4<<20)

	event, data := readEvent(t, scanner)
	if event != "frame" {
		t.Fatalf("Expected an initial frame event, got %s", event)
	}
	var first FrameUpdate
	if err := json.Unmarshal([]byte(data), &first); err != nil {
		t.Fatalf("Invalid frame JSON: %v", err)
	}
	if first.Sequence != 1 || first.ImageData == "" {
		t.Errorf("Unexpected first frame %+v", first.Sequence)
	}

	post, err := http.Post(ts.URL+"/api/intent", "application/json",
		strings.NewReader(`{"type": "orbit", "axis": "horizontal", "degrees": 30}`))
	if err != nil {
		t.Fatalf("Intent request failed: %v", err)
	}
	post.Body.Close()

	// Console lines may arrive before the frame
	for {
		event, data = readEvent(t, scanner)
		if event == "frame" {
			break
		}
		if event != "console" {
			t.Fatalf("Unexpected event %s: %s", event, data)
		}
	}

	var second FrameUpdate
	if err := json.Unmarshal([]byte(data), &second); err != nil {
		t.Fatalf("Invalid frame JSON: %v", err)
	}
	if second.Sequence != 2 {
		t.Errorf("Expected sequence 2, got %d", second.Sequence)
	}
}
