package features

import (
	"errors"
	"math"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    float64
		wantErr error
	}{
		{name: "integer", raw: "100", want: 100},
		{name: "decimal", raw: "12.5", want: 12.5},
		{name: "padded", raw: "  42 ", want: 42},
		{name: "exceeds uint64", raw: "2000000000000000000000000", want: 2e24},
		{name: "exponent", raw: "1.5e3", want: 1500},
		{name: "empty", raw: "", wantErr: ErrMissingAmount},
		{name: "blank", raw: "   ", wantErr: ErrMissingAmount},
		{name: "text", raw: "abc", wantErr: ErrMalformedAmount},
		{name: "nan", raw: "NaN", wantErr: ErrMalformedAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if got != 0 {
					t.Errorf("expected 0 on error, got %f", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9*math.Max(1, math.Abs(tt.want)) {
				t.Errorf("expected %g, got %g", tt.want, got)
			}
		})
	}
}
