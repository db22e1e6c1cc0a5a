package sizing

import (
	"math"
	"testing"

	"github.com/matzehuels/tagcloud/pkg/errors"
	"github.com/matzehuels/tagcloud/pkg/fonts"
	"github.com/matzehuels/tagcloud/pkg/words"
)

func TestValidateRange(t *testing.T) {
	tests := []struct {
		name     string
		min, max int
		wantErr  bool
	}{
		{"default", 15, 35, false},
		{"equal", 20, 20, false},
		{"zero", 0, 0, false},
		{"inverted", 40, 10, true},
		{"negative min", -1, 10, true},
		{"negative max", 0, -5, true},
		{"largest", 10, MaxFontSize, false},
		{"too large", 10, MaxFontSize + 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRange(tt.min, tt.max)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateRange(%d, %d) error = %v, wantErr %v", tt.min, tt.max, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidFontRange) {
				t.Errorf("code = %v, want INVALID_FONT_RANGE", errors.GetCode(err))
			}
		})
	}
}

func TestScale(t *testing.T) {
	stats := []words.Stat{{Word: "a", Count: 10}, {Word: "b", Count: 5}, {Word: "c", Count: 1}}
	s, err := NewScale(Range{Min: 15, Max: 35}, stats)
	if err != nil {
		t.Fatal(err)
	}
	// multiplier = 21/10, avg = 5.5, mid = 25
	tests := []struct {
		count int
		want  float64
	}{
		{10, 25 + 4.5*2.1},
		{1, 25 - 4.5*2.1},
		{5, 25 - 0.5*2.1},
	}
	for _, tt := range tests {
		if got := s.Size(tt.count); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Size(%d) = %v, want %v", tt.count, got, tt.want)
		}
	}
	if s.Size(10) <= s.Size(5) || s.Size(5) <= s.Size(1) {
		t.Error("Size should grow with count")
	}
}

func TestScaleSingleCount(t *testing.T) {
	s, _ := NewScale(Range{Min: 10, Max: 20}, []words.Stat{{Word: "x", Count: 3}, {Word: "y", Count: 3}})
	if got := s.Size(3); got != 15 {
		t.Errorf("Size(3) = %v, want 15", got)
	}
}

func TestScaleClampsToMinimum(t *testing.T) {
	s, _ := NewScale(Range{Min: 0, Max: 0}, []words.Stat{{Word: "x", Count: 100}, {Word: "y", Count: 1}})
	if got := s.Size(1); got != MinFontSize {
		t.Errorf("Size(1) = %v, want %v", got, MinFontSize)
	}
}

func TestNewScaleRejectsBadRange(t *testing.T) {
	if _, err := NewScale(Range{Min: 30, Max: 10}, nil); !errors.Is(err, errors.ErrCodeInvalidFontRange) {
		t.Errorf("error = %v, want INVALID_FONT_RANGE", err)
	}
}

func TestMeasure(t *testing.T) {
	src, err := fonts.Builtin(fonts.Default)
	if err != nil {
		t.Fatal(err)
	}
	face, err := src.Face(24)
	if err != nil {
		t.Fatal(err)
	}

	short := Measure(face, "go")
	long := Measure(face, "gopher")
	if !short.Positive() {
		t.Fatalf("Measure(go) = %v, want positive", short)
	}
	if long.Width <= short.Width {
		t.Errorf("longer word should be wider: %v vs %v", long, short)
	}
	if long.Height != short.Height {
		t.Errorf("heights differ for the same face: %v vs %v", long.Height, short.Height)
	}
	if a := Ascent(face); a <= 0 || a >= short.Height {
		t.Errorf("Ascent = %v, want in (0, %v)", a, short.Height)
	}

	bigger, _ := src.Face(48)
	if Measure(bigger, "go").Width <= short.Width {
		t.Error("larger face should produce a wider box")
	}
}
