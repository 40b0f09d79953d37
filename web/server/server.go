package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/camera"
	"github.com/df07/go-phong-raytracer/pkg/loaders"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"github.com/df07/go-phong-raytracer/pkg/scene"
	"github.com/df07/go-phong-raytracer/pkg/session"
)

const maxIntentBytes = 64 << 10

// Options configures the scene served by the web server
type Options struct {
	SceneID   string // Built-in scene name or "file:<name>"
	Width     int    // Image width (0 = scene default)
	Height    int    // Image height (0 = scene default)
	Workers   int    // Render workers (0 = CPU count)
	StaticDir string // Directory served at "/"
}

// DefaultOptions returns the options used by the web command
func DefaultOptions() Options {
	return Options{
		SceneID:   "default",
		Width:     600,
		Height:    600,
		StaticDir: "static/",
	}
}

// Server handles web requests for the interactive raytracer. It owns one
// session at a time; switching scenes replaces it.
type Server struct {
	port    int
	options Options

	mu          sync.Mutex // Guards the fields below
	session     *session.Session
	sceneID     string
	stopForward func()

	consoleChan chan ConsoleMessage
	console     *broadcaster[ConsoleMessage]
	frames      *broadcaster[session.Frame]
	done        chan struct{}
	closeOnce   sync.Once
}

// FrameUpdate is a rendered frame sent via SSE
type FrameUpdate struct {
	Sequence  uint64 `json:"sequence"`
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels     int     `json:"totalPixels"`
	ChangedPixels   int     `json:"changedPixels"`
	HitPixels       int     `json:"hitPixels"`
	Workers         int     `json:"workers"`
	ElapsedMs       float64 `json:"elapsedMs"`
	FramesPerSecond float64 `json:"framesPerSecond"`
}

// IntentResponse is returned after an intent has been applied
type IntentResponse struct {
	Sequence uint64 `json:"sequence"`
	Stats    Stats  `json:"stats"`
}

// SceneState describes the editable state of the current scene
type SceneState struct {
	SceneID            string        `json:"sceneId"`
	Width              int           `json:"width"`
	Height             int           `json:"height"`
	HorizontalRotation float64       `json:"horizontalRotation"`
	VerticalRotation   float64       `json:"verticalRotation"`
	AmbientCoefficient float64       `json:"ambientCoefficient"`
	Light              LightState    `json:"light"`
	Spheres            []SphereState `json:"spheres"`
}

// LightState describes the scene light
type LightState struct {
	Position [3]float64 `json:"position"`
	Color    [3]uint8   `json:"color"`
}

// SphereState describes one sphere of the scene
type SphereState struct {
	Center [3]float64 `json:"center"`
	Radius float64    `json:"radius"`
	Color  [3]uint8   `json:"color"`
}

func newStats(rs renderer.RenderStats) Stats {
	return Stats{
		TotalPixels:     rs.TotalPixels,
		ChangedPixels:   rs.ChangedPixels,
		HitPixels:       rs.HitPixels,
		Workers:         rs.Workers,
		ElapsedMs:       float64(rs.Duration) / float64(time.Millisecond),
		FramesPerSecond: rs.FramesPerSecond(),
	}
}

// NewServer creates a web server and renders the first frame of its scene
func NewServer(port int, options Options) (*Server, error) {
	if options.SceneID == "" {
		options.SceneID = "default"
	}

	s := &Server{
		port:        port,
		options:     options,
		consoleChan: make(chan ConsoleMessage, 100),
		console:     newBroadcaster[ConsoleMessage](),
		frames:      newBroadcaster[session.Frame](),
		done:        make(chan struct{}),
	}
	go s.forwardConsole()

	if err := s.loadScene(options.SceneID); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	if s.options.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.options.StaticDir)))
	}

	// API endpoints
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene", s.handleScene)
	mux.HandleFunc("/api/frame", s.handleFrame)
	mux.HandleFunc("/api/intent", s.handleIntent)
	mux.HandleFunc("/api/events", s.handleEvents)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// Close stops the current session and the console forwarder
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		if s.stopForward != nil {
			s.stopForward()
		}
		if s.session != nil {
			s.session.Close()
		}
		s.mu.Unlock()
		close(s.done)
	})
}

func (s *Server) forwardConsole() {
	for {
		select {
		case msg := <-s.consoleChan:
			s.console.publish(msg)
		case <-s.done:
			return
		}
	}
}

// loadScene replaces the current session with a fresh one for id
func (s *Server) loadScene(id string) error {
	sc, err := loaders.OpenScene(id, camera.Config{Width: s.options.Width, Height: s.options.Height})
	if err != nil {
		return err
	}

	logger := NewWebLogger(id, s.consoleChan)
	rt := renderer.New(renderer.Config{
		NumWorkers:    s.options.Workers,
		WarnThreshold: renderer.DefaultConfig().WarnThreshold,
	}, nil, logger)

	sess, err := session.New(sc, rt, logger)
	if err != nil {
		rt.Close()
		return err
	}

	frames, unsubscribe := sess.Subscribe()
	go func() {
		for frame := range frames {
			s.frames.publish(frame)
		}
	}()

	if _, err := sess.Render(context.Background()); err != nil {
		unsubscribe()
		sess.Close()
		return err
	}

	s.mu.Lock()
	old, oldStop := s.session, s.stopForward
	s.session, s.sceneID, s.stopForward = sess, id, unsubscribe
	s.mu.Unlock()

	if oldStop != nil {
		oldStop()
	}
	if old != nil {
		old.Close()
	}

	logger.Printf("Loaded scene %s (%dx%d)\n", id, sc.Camera.Width(), sc.Camera.Height())
	return nil
}

func (s *Server) current() (*session.Session, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session, s.sceneID
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes and discovered scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := scene.ListAllScenes()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, scenes)
}

// handleScene returns the current scene state, or switches scenes on POST
func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		id := r.URL.Query().Get("id")
		if id == "" {
			writeError(w, http.StatusBadRequest, "missing scene id")
			return
		}
		if err := s.loadScene(id); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	default:
		writeError(w, http.StatusMethodNotAllowed, "use GET or POST")
		return
	}

	sess, id := s.current()
	writeJSON(w, http.StatusOK, sceneState(sess, id))
}

func sceneState(sess *session.Session, id string) SceneState {
	var state SceneState
	sess.View(func(sc *scene.Scene) {
		cam := sc.Camera
		light := sc.Light()
		state = SceneState{
			SceneID:            id,
			Width:              cam.Width(),
			Height:             cam.Height(),
			HorizontalRotation: cam.HorizontalRotation(),
			VerticalRotation:   cam.VerticalRotation(),
			AmbientCoefficient: cam.AmbientCoefficient(),
			Light: LightState{
				Position: light.Position.Array(),
				Color:    light.PixelColour().Array(),
			},
			Spheres: make([]SphereState, 0, len(sc.Shapes)),
		}
		for _, shape := range sc.Shapes {
			state.Spheres = append(state.Spheres, sphereState(shape))
		}
	})
	return state
}

// handleFrame returns the latest frame as a PNG
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	sess, _ := s.current()
	frame := sess.Frame()

	var buf bytes.Buffer
	if err := loaders.EncodePNG(&buf, frame.Buffer); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Frame-Sequence", strconv.FormatUint(frame.Sequence, 10))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// handleIntent applies a JSON intent and re-renders
func (s *Server) handleIntent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "use POST")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxIntentBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to read request: %v", err))
		return
	}

	intent, err := scene.DecodeIntent(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, _ := s.current()
	stats, err := sess.Apply(r.Context(), intent)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, IntentResponse{Sequence: sess.Frame().Sequence, Stats: newStats(stats)})
}

// handleEvents streams frames and console messages with SSE
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	frames, stopFrames := s.frames.listen(1)
	defer stopFrames()
	console, stopConsole := s.console.listen(32)
	defer stopConsole()

	// Send the current frame right away so new clients have something to show
	sess, _ := s.current()
	if err := s.sendSSEFrame(w, sess.Frame()); err != nil {
		return
	}

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case frame := <-frames:
			if err := s.sendSSEFrame(w, frame); err != nil {
				return
			}
		case msg := <-console:
			data, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			if err := s.sendSSEEvent(w, "console", string(data)); err != nil {
				return
			}
		}
	}
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := loaders.EncodePNG(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func (s *Server) sendSSEFrame(w http.ResponseWriter, frame session.Frame) error {
	imageData, err := s.imageToBase64PNG(frame.Buffer)
	if err != nil {
		return s.sendSSEError(w, fmt.Sprintf("failed to encode frame: %v", err))
	}

	data, err := json.Marshal(FrameUpdate{
		Sequence:  frame.Sequence,
		ImageData: imageData,
		Stats:     newStats(frame.Stats),
	})
	if err != nil {
		return err
	}
	return s.sendSSEEvent(w, "frame", string(data))
}

// sendSSEError sends an error via SSE
func (s *Server) sendSSEError(w http.ResponseWriter, message string) error {
	return s.sendSSEEvent(w, "error", message)
}

// sendSSEEvent sends a generic SSE event
func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) error {
	if flusher, ok := w.(http.Flusher); ok {
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}
	return fmt.Errorf("streaming not supported")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
