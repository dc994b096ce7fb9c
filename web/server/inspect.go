package server

import (
	"fmt"
	"net/http"

	"github.com/df07/go-haunted-house/pkg/core"
	"github.com/df07/go-haunted-house/pkg/material"
	"github.com/df07/go-haunted-house/pkg/renderer"
)

// InspectResponse describes the surface under a pixel
type InspectResponse struct {
	Hit           bool                   `json:"hit"`
	Object        string                 `json:"object"`
	Material      string                 `json:"material"`
	Point         [3]float64             `json:"point"`
	Normal        [3]float64             `json:"normal"`
	Distance      float64                `json:"distance"`
	FrontFace     bool                   `json:"frontFace"`
	CastShadow    bool                   `json:"castShadow"`
	ReceiveShadow bool                   `json:"receiveShadow"`
	Properties    map[string]interface{} `json:"properties"`
}

// materialProperties summarizes a material at the hit's texture coordinates
func materialProperties(m *material.Standard, uv, uv2 core.Vec2) map[string]interface{} {
	properties := make(map[string]interface{})
	if m == nil {
		return properties
	}
	properties["color"] = m.BaseColor(uv).Hex()
	properties["alpha"] = m.Alpha(uv)
	properties["roughness"] = m.RoughnessAt(uv)
	properties["metalness"] = m.MetalnessAt(uv)
	properties["occlusion"] = m.Occlusion(uv2)
	properties["transparent"] = m.Transparent

	var textures []string
	for _, tex := range m.Textures() {
		state := "pending"
		if tex.Ready() {
			state = "ready"
		}
		textures = append(textures, fmt.Sprintf("%s (%s)", tex.Path, state))
	}
	properties["textures"] = textures
	return properties
}

// handleInspect reports what the camera sees at pixel (x, y) of a frame
// rendered with the same parameters as /api/frame
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := parseSceneRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	bufferWidth, bufferHeight := renderer.NewViewport(req.Width, req.Height, req.PixelRatio).BufferSize()
	x, err := parseIntParam(r.URL.Query(), "x", -1, 0, bufferWidth-1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	y, err := parseIntParam(r.URL.Query(), "y", -1, 0, bufferHeight-1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if x < 0 || y < 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("x and y are required"))
		return
	}

	a, err := s.prepareFrame(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	defer a.Close()
	a.Step(req.Time)

	rec, ok := a.Renderer.Pick(a.Scene, a.Camera, x, y)
	if !ok {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	surface := rec.Surface
	response := InspectResponse{
		Hit:           true,
		Object:        surface.Name,
		Point:         [3]float64{rec.Point.X, rec.Point.Y, rec.Point.Z},
		Normal:        [3]float64{rec.Normal.X, rec.Normal.Y, rec.Normal.Z},
		Distance:      rec.T,
		FrontFace:     rec.FrontFace,
		CastShadow:    surface.CastShadow,
		ReceiveShadow: surface.ReceiveShadow,
		Properties:    materialProperties(surface.Material, rec.UV, rec.UV2),
	}
	if surface.Material != nil {
		response.Material = surface.Material.Name
	}
	writeJSON(w, http.StatusOK, response)
}
