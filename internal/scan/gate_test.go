package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/volumate/volumate/internal/domain"
)

var testFrame = domain.ScanFrame{Top: 100, Left: 50, Width: 200, Height: 120}

func boxAt(cx, cy float64) *domain.BoundingBox {
	// 40x20 box centered on (cx, cy)
	return &domain.BoundingBox{X: cx - 20, Y: cy - 10, Width: 40, Height: 20}
}

func TestAccept(t *testing.T) {
	tests := []struct {
		name   string
		bounds *domain.BoundingBox
		want   bool
	}{
		{"no bounds accepted unconditionally", nil, true},
		{"center inside", boxAt(150, 160), true},
		{"center on left edge", boxAt(50, 160), true},
		{"center on right edge", boxAt(250, 160), true},
		{"center on top edge", boxAt(150, 100), true},
		{"center on bottom edge", boxAt(150, 220), true},
		{"corner on frame corner", boxAt(50, 100), true},
		{"center left of frame", boxAt(49.9, 160), false},
		{"center right of frame", boxAt(250.1, 160), false},
		{"center above frame", boxAt(150, 99.9), false},
		{"center below frame", boxAt(150, 220.1), false},
		{"box straddles edge but center outside", boxAt(40, 160), false},
		{"box straddles edge and center inside", boxAt(60, 160), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := domain.ScanEvent{Barcode: "5000112637922", Bounds: tt.bounds}
			assert.Equal(t, tt.want, Accept(event, testFrame))
		})
	}
}

// The gate is pure: repeated evaluation of the same event must not change
// the outcome.
func TestAcceptIdempotent(t *testing.T) {
	event := domain.ScanEvent{Barcode: "5000112637922", Bounds: boxAt(150, 160)}
	for i := 0; i < 3; i++ {
		assert.True(t, Accept(event, testFrame))
	}
}

func TestSessionLatch(t *testing.T) {
	s := NewSession(testFrame)
	inside := domain.ScanEvent{Barcode: "5000112637922", Bounds: boxAt(150, 160)}

	assert.False(t, s.Locked())
	assert.True(t, s.Offer(inside))
	assert.True(t, s.Locked())

	// Locked: everything is ignored, even events inside the frame.
	assert.False(t, s.Offer(inside))
	assert.False(t, s.Offer(domain.ScanEvent{Barcode: "4000417025005"}))

	s.Reset()
	assert.False(t, s.Locked())
	assert.True(t, s.Offer(inside))
}

func TestSessionRejectedEventDoesNotLock(t *testing.T) {
	s := NewSession(testFrame)
	outside := domain.ScanEvent{Barcode: "5000112637922", Bounds: boxAt(10, 10)}

	assert.False(t, s.Offer(outside))
	assert.False(t, s.Locked())

	inside := domain.ScanEvent{Barcode: "5000112637922", Bounds: boxAt(150, 160)}
	assert.True(t, s.Offer(inside))
}

func TestSessionNoBoundsAccepted(t *testing.T) {
	s := NewSession(testFrame)
	assert.True(t, s.Offer(domain.ScanEvent{Barcode: "96385074"}))
}
