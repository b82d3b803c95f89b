package designer

import "testing"

func TestGrid_Move(t *testing.T) {
	tests := []struct {
		name         string
		grid         Grid
		x, y, dx, dy float64
		wantX, wantY float64
	}{
		{"snap", DefaultGrid(), 10, 10, 3, 7, 15, 15},
		{"snap half to even", DefaultGrid(), 10, 10, 2.5, 7.5, 10, 20},
		{"snap from off grid", DefaultGrid(), 12, 12, 1, 1, 15, 15},
		{"clamp negative", DefaultGrid(), 10, 10, -40, -12.6, 0, 0},
		{"no snap", Grid{Size: 5}, 10, 10, 1.25, -0.5, 11.25, 9.5},
		{"no snap clamp", Grid{Size: 5}, 1, 1, -2, -2, 0, 0},
		{"zero size", Grid{Snap: true}, 1, 2, 0.5, 0.5, 1.5, 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := tt.grid.Move(tt.x, tt.y, tt.dx, tt.dy)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("Move = (%g, %g), want (%g, %g)", x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestGrid_Resize(t *testing.T) {
	tests := []struct {
		name         string
		grid         Grid
		w, h, dw, dh float64
		wantW, wantH float64
	}{
		{"snap", DefaultGrid(), 80, 20, 4, -4, 85, 15},
		{"minimum", DefaultGrid(), 80, 20, -100, -19, 5, 5},
		{"no snap minimum", Grid{Size: 5}, 10, 10, -7, 2.5, 5, 12.5},
		{"snap to zero clamps", Grid{Size: 10, Snap: true}, 10, 10, -6, -8, 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := tt.grid.Resize(tt.w, tt.h, tt.dw, tt.dh)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Resize = (%g, %g), want (%g, %g)", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}
