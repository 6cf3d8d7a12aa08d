package dto

// PrefetchRequest is the body of POST /api/v1/prefetch. Zoom bounds follow
// the slippy-map convention; radius is measured in tiles around the center.
type PrefetchRequest struct {
	Source    string  `json:"source"`
	CenterLat float64 `json:"center_lat" validate:"gte=-85.0511,lte=85.0511"`
	CenterLon float64 `json:"center_lon" validate:"gte=-180,lte=180"`
	ZoomMin   int     `json:"zoom_min" validate:"gte=0,lte=19"`
	ZoomMax   int     `json:"zoom_max" validate:"gte=0,lte=19,gtefield=ZoomMin"`
	Radius    int     `json:"radius" validate:"gte=0,lte=50"`
}

// PrefetchResponse reports what a prefetch pass will cover.
type PrefetchResponse struct {
	Source     string `json:"source"`
	Candidates int    `json:"candidates"`
}
