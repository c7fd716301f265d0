package session

import "testing"

func TestProgress(t *testing.T) {
	tests := []struct {
		index, total, want int
	}{
		{0, 5, 0},
		{1, 3, 33},
		{2, 3, 66},
		{1, 2, 50},
		{3, 3, 100},
		{4, 3, 100},
		{0, 0, 0},
		{1, 0, 0},
	}
	for _, tt := range tests {
		if got := Progress(tt.index, tt.total); got != tt.want {
			t.Errorf("Progress(%d, %d) = %d, want %d", tt.index, tt.total, got, tt.want)
		}
	}
}
