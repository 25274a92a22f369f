package domain

// BoundingBox is the reported location of a scanned symbol in screen
// coordinates: origin at (X, Y), extending Width to the right and Height
// downward.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CenterX returns the horizontal center of the box.
func (b BoundingBox) CenterX() float64 { return b.X + b.Width/2 }

// CenterY returns the vertical center of the box.
func (b BoundingBox) CenterY() float64 { return b.Y + b.Height/2 }

// ScanFrame is the on-screen capture rectangle within which a scan counts
// as intentional. Configured once per scanning session, never mutated.
type ScanFrame struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ScanEvent is a single tick from the scanner backend. Bounds is nil when
// the backend does not report symbol geometry; such events are accepted
// unconditionally.
type ScanEvent struct {
	Barcode string       `json:"barcode"`
	Bounds  *BoundingBox `json:"bounds,omitempty"`
}

// RemoteProduct is a product record as returned by the food-database
// service, read-only to this client. Score is a pointer so that "no
// reliable score could be computed" (nil) stays distinct from a real
// score of zero.
type RemoteProduct struct {
	Barcode        string `json:"barcode"`
	DisplayName    string `json:"displayName"`
	ImageURL       string `json:"imageUrl,omitempty"`
	NutritionGrade string `json:"nutritionGrade,omitempty"`
	NovaGroup      string `json:"novaGroup,omitempty"`
	Score          *int   `json:"volumeSerenityScore,omitempty"`
	Rating         string `json:"volumeSerenityRating,omitempty"`
	RatingColor    string `json:"volumeSerenityRatingColor,omitempty"`
}

// SavedProduct is a locally persisted product row, keyed by barcode.
// Created only by an explicit user save after a successful resolution;
// re-saving the same barcode overwrites the whole row.
type SavedProduct struct {
	Barcode     string  `json:"barcode"`
	Name        string  `json:"name"`
	ImageURL    *string `json:"imageUrl"`
	Score       int     `json:"score"`
	Rating      string  `json:"rating"`
	RatingColor string  `json:"ratingColor"`
}
