package server

import (
	"bytes"
	"context"
	"image/png"
	"log"
	"net/http"
	"strconv"

	"github.com/df07/go-haunted-house/pkg/app"
	"github.com/df07/go-haunted-house/pkg/core"
)

// handleFrame renders a single PNG of a preset at time t. Textured presets
// wait a bounded time for their textures first.
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	req, err := parseSceneRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	a, err := s.prepareFrame(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	defer a.Close()

	frame, err := a.Frame(req.Time)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, frame.Image); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Duration", frame.Stats.Duration.String())
	w.Header().Set("X-Render-Triangles", strconv.Itoa(frame.Stats.Triangles))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// prepareFrame builds an App stopped at req.Time and waits for its textures
func (s *Server) prepareFrame(ctx context.Context, req *SceneRequest) (*app.App, error) {
	a, err := s.buildApp(req, app.NewManualClock(req.Time), core.NopLogger{})
	if err != nil {
		return nil, err
	}
	if a.House.Textures != nil && s.options.TextureWait > 0 {
		waitCtx, cancel := context.WithTimeout(ctx, s.options.TextureWait)
		defer cancel()
		if err := a.House.Textures.WaitContext(waitCtx); err != nil {
			log.Printf("Rendering %s before textures finished: %v", req.Preset, err)
		}
	}
	return a, nil
}
