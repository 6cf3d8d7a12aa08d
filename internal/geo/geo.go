// Package geo converts between geographic coordinates, world pixel
// coordinates and slippy-map tile indices (Web Mercator).
package geo

import "math"

const (
	// TileSize is the edge length of a raster tile in pixels.
	TileSize = 256

	// MaxLat is the Mercator latitude limit. The projection is undefined
	// at the poles; callers must clamp before converting.
	MaxLat = 85.0511
)

// GeoToWorldPixel projects lat/lon to world pixel coordinates at the given
// zoom. Valid for lat strictly inside (-MaxLat, MaxLat).
func GeoToWorldPixel(lat, lon float64, zoom int) (x, y float64) {
	n := math.Pow(2, float64(zoom))
	x = (lon + 180.0) / 360.0 * n * TileSize
	latRad := lat * math.Pi / 180.0
	y = (1.0 - math.Log(math.Tan(latRad)+1.0/math.Cos(latRad))/math.Pi) / 2.0 * n * TileSize
	return x, y
}

// WorldPixelToGeo is the inverse of GeoToWorldPixel.
func WorldPixelToGeo(x, y float64, zoom int) (lat, lon float64) {
	n := math.Pow(2, float64(zoom))
	lon = x/TileSize/n*360.0 - 180.0
	latRad := math.Atan(math.Sinh(math.Pi * (1 - 2*y/TileSize/n)))
	lat = latRad * 180.0 / math.Pi
	return lat, lon
}

// WorldPixelToTile returns the tile indices containing the given world
// pixel coordinates.
func WorldPixelToTile(x, y float64) (tileX, tileY int) {
	return int(math.Floor(x / TileSize)), int(math.Floor(y / TileSize))
}

// TileToWorldPixel returns the world pixel coordinates of the tile origin.
func TileToWorldPixel(tileX, tileY int) (x, y float64) {
	return float64(tileX) * TileSize, float64(tileY) * TileSize
}

// ClampLat limits lat to the Mercator-projectable range.
func ClampLat(lat float64) float64 {
	if lat > MaxLat {
		return MaxLat
	}
	if lat < -MaxLat {
		return -MaxLat
	}
	return lat
}

// MaxTileIndex returns the largest valid tile index on each axis at zoom.
func MaxTileIndex(zoom int) int {
	return 1<<uint(zoom) - 1
}
