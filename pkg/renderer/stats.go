package renderer

import "time"

// TileStats counts the work done for one tile
type TileStats struct {
	Pixels      int // Pixels written
	PrimaryRays int // Camera rays, including continuations through transparent surfaces
	ShadowRays  int // Occlusion queries toward lights
	Hits        int // Camera rays that hit geometry
}

// Add accumulates another tile's counts
func (s *TileStats) Add(other TileStats) {
	s.Pixels += other.Pixels
	s.PrimaryRays += other.PrimaryRays
	s.ShadowRays += other.ShadowRays
	s.Hits += other.Hits
}

// RenderStats contains statistics about one rendered frame
type RenderStats struct {
	TileStats
	Width        int           // Drawing buffer width
	Height       int           // Drawing buffer height
	Tiles        int           // Number of tiles rendered
	Workers      int           // Worker goroutines in the pool
	Triangles    int           // Triangles in the acceleration structure
	SceneRebuilt bool          // Whether world geometry was rebuilt for this frame
	Duration     time.Duration // Wall time for the frame
}

// Coverage returns the fraction of camera rays that hit geometry
func (s RenderStats) Coverage() float64 {
	if s.PrimaryRays == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.PrimaryRays)
}
