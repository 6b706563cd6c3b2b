package domain_test

import (
	"math"
	"testing"

	"hotel_admin/internal/domain"
)

func TestDerivePoints(t *testing.T) {
	cases := []struct {
		name      string
		base      float64
		almosafer float64
		shukran   float64
	}{
		{"round numbers", 250, 25.00, 50.00},
		{"zero", 0, 0, 0},
		{"cents", 99.99, 10.00, 20.00},
		{"fractional carry", 10.05, 1.01, 2.01},
		{"negative coerced to zero", -120, 0, 0},
		{"large", 123456.78, 12345.68, 24691.36},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, s := domain.DerivePoints(tc.base)
			if a != tc.almosafer || s != tc.shukran {
				t.Fatalf("DerivePoints(%v) = (%v, %v), want (%v, %v)", tc.base, a, s, tc.almosafer, tc.shukran)
			}
		})
	}
}

func TestDerivePoints_NonFinite(t *testing.T) {
	for _, base := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		a, s := domain.DerivePoints(base)
		if a != 0 || s != 0 {
			t.Fatalf("DerivePoints(%v) = (%v, %v), want (0, 0)", base, a, s)
		}
	}
}

func TestNormalizePackage_OverwritesClientPoints(t *testing.T) {
	p := domain.NormalizePackage(domain.RoomPackage{
		BasePrice:       200,
		AlmosaferPoints: 9999, // client-sent, must be ignored
		ShukranPoints:   9999,
	})
	if p.AlmosaferPoints != 20 || p.ShukranPoints != 40 {
		t.Fatalf("points = (%v, %v), want (20, 40)", p.AlmosaferPoints, p.ShukranPoints)
	}
	if p.FirstPrice != 220 {
		t.Fatalf("FirstPrice = %v, want default base*1.10 = 220", p.FirstPrice)
	}
}

func TestNormalizePackage_KeepsSuppliedFirstPrice(t *testing.T) {
	p := domain.NormalizePackage(domain.RoomPackage{BasePrice: 100, FirstPrice: 150})
	if p.FirstPrice != 150 {
		t.Fatalf("FirstPrice = %v, want 150", p.FirstPrice)
	}
}

// The form preview and the persistence path must agree exactly.
func TestNormalizePackage_AgreesWithDerivePoints(t *testing.T) {
	for _, base := range []float64{0, 0.01, 33.33, 250, 1234.56, 99999.99} {
		a, s := domain.DerivePoints(base)
		p := domain.NormalizePackage(domain.RoomPackage{BasePrice: base})
		if p.AlmosaferPoints != a || p.ShukranPoints != s {
			t.Fatalf("base %v: normalize (%v, %v) != derive (%v, %v)",
				base, p.AlmosaferPoints, p.ShukranPoints, a, s)
		}
	}
}
