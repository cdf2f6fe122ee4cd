package domain

import (
	"testing"
	"time"
)

func TestPriceObservation_IsStale(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		observed time.Time
		now      time.Time
		maxAge   time.Duration
		want     bool
	}{
		{
			name:     "fresh",
			observed: base,
			now:      base.Add(5 * time.Second),
			maxAge:   10 * time.Second,
			want:     false,
		},
		{
			name:     "exactly_at_threshold",
			observed: base,
			now:      base.Add(10 * time.Second),
			maxAge:   10 * time.Second,
			want:     false,
		},
		{
			name:     "past_threshold",
			observed: base,
			now:      base.Add(11 * time.Second),
			maxAge:   10 * time.Second,
			want:     true,
		},
		{
			name:     "zero_max_age_uses_default",
			observed: base,
			now:      base.Add(DefaultMaxAge + time.Second),
			maxAge:   0,
			want:     true,
		},
		{
			name:     "negative_max_age_uses_default",
			observed: base,
			now:      base.Add(30 * time.Second),
			maxAge:   -1,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := PriceObservation{ObservedAt: tt.observed}
			if got := o.IsStale(tt.now, tt.maxAge); got != tt.want {
				t.Errorf("IsStale() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPriceObservation_Age(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	o := PriceObservation{ObservedAt: base}

	if got := o.Age(base.Add(42 * time.Second)); got != 42*time.Second {
		t.Errorf("Age() = %v, want 42s", got)
	}
}
