package fleet

import (
	"errors"
	"math"
	"testing"

	"gridwatch/backend/internal/model"
)

func TestGenerateLevelsScenarios(t *testing.T) {
	tests := []struct {
		name  string
		lower float64
		upper float64
		count int
		kind  model.GridType
		want  []float64
	}{
		{
			name: "geometric doubling", lower: 100, upper: 200, count: 4, kind: model.GridGeometric,
			want: []float64{100, 118.92071150, 141.42135624, 168.17928305, 200},
		},
		{
			name: "single interval", lower: 10, upper: 20, count: 1, kind: model.GridArithmetic,
			want: []float64{10, 20},
		},
		{
			name: "small arithmetic", lower: 150, upper: 200, count: 10, kind: model.GridArithmetic,
			want: []float64{150, 155, 160, 165, 170, 175, 180, 185, 190, 195, 200},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateLevels(tt.lower, tt.upper, tt.count, tt.kind)
			if len(got) != len(tt.want) {
				t.Fatalf("len got %d want %d", len(got), len(tt.want))
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-8 {
					t.Fatalf("level %d got %v want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestGenerateLevelsArithmeticStep(t *testing.T) {
	levels := GenerateLevels(62000, 72000, 20, model.GridArithmetic)
	if len(levels) != 21 {
		t.Fatalf("len got %d want 21", len(levels))
	}
	for i := 1; i < len(levels); i++ {
		if diff := levels[i] - levels[i-1]; math.Abs(diff-500) > 1e-8 {
			t.Fatalf("step %d got %v want 500", i, diff)
		}
	}
}

func TestGenerateLevelsProperties(t *testing.T) {
	cases := []struct {
		lower, upper float64
		count        int
	}{
		{62000, 72000, 20},
		{3100, 3800, 15},
		{0.0001, 0.0002, 7},
		{1, 1000, 50},
	}
	for _, c := range cases {
		for _, kind := range []model.GridType{model.GridArithmetic, model.GridGeometric} {
			levels := GenerateLevels(c.lower, c.upper, c.count, kind)

			if len(levels) != c.count+1 {
				t.Fatalf("%v %v: len got %d want %d", c, kind, len(levels), c.count+1)
			}
			if math.Abs(levels[0]-c.lower) > 1e-8 || math.Abs(levels[c.count]-c.upper) > 1e-6 {
				t.Fatalf("%v %v: endpoints got %v..%v", c, kind, levels[0], levels[c.count])
			}
			for i := 1; i < len(levels); i++ {
				if levels[i] <= levels[i-1] {
					t.Fatalf("%v %v: not strictly increasing at %d", c, kind, i)
				}
			}

			again := GenerateLevels(c.lower, c.upper, c.count, kind)
			for i := range levels {
				if levels[i] != again[i] {
					t.Fatalf("%v %v: not idempotent", c, kind)
				}
			}
		}
	}
}

func TestGenerateLevelsGeometricRatios(t *testing.T) {
	levels := GenerateLevels(3100, 3800, 15, model.GridGeometric)
	want := levels[1] / levels[0]
	for i := 2; i < len(levels); i++ {
		if r := levels[i] / levels[i-1]; math.Abs(r-want) > 1e-9 {
			t.Fatalf("ratio %d got %v want %v", i, r, want)
		}
	}
}

func TestLevelsRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name      string
		bot       model.GridBot
		wantField string
	}{
		{"zero count", model.GridBot{LowerLimit: 1, UpperLimit: 2, GridCount: 0, GridType: model.GridArithmetic}, "gridCount"},
		{"inverted bounds", model.GridBot{LowerLimit: 2, UpperLimit: 1, GridCount: 5, GridType: model.GridArithmetic}, "upperLimit"},
		{"zero lower", model.GridBot{LowerLimit: 0, UpperLimit: 1, GridCount: 5, GridType: model.GridGeometric}, "lowerLimit"},
		{"bad kind", model.GridBot{LowerLimit: 1, UpperLimit: 2, GridCount: 5, GridType: "log"}, "gridType"},
		{"range too narrow", model.GridBot{LowerLimit: 1, UpperLimit: 1.00000001, GridCount: 10, GridType: model.GridArithmetic}, "gridCount"},
		{"geometric range too narrow", model.GridBot{LowerLimit: 1, UpperLimit: 1.00000001, GridCount: 10, GridType: model.GridGeometric}, "gridCount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Levels(&tt.bot)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("got %v want ErrInvalidConfig", err)
			}
			var ve *model.ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.wantField {
				t.Fatalf("got %v want field %s", err, tt.wantField)
			}
		})
	}
}

func TestPreviewNarrowRangeStaysDistinct(t *testing.T) {
	levels, err := Preview(1, 1.000001, 10, model.GridArithmetic)
	if err != nil {
		t.Fatalf("got %v want a ladder", err)
	}
	for i := 1; i < len(levels); i++ {
		if levels[i] <= levels[i-1] {
			t.Fatalf("levels collapsed at %d: %v", i, levels)
		}
	}
}

func TestPreviewDefaultsToArithmetic(t *testing.T) {
	levels, err := Preview(100, 200, 2, "")
	if err != nil {
		t.Fatal(err)
	}
	if levels[1] != 150 {
		t.Fatalf("got %v want midpoint 150", levels)
	}
}
