package domain

import "math"

// Loyalty-point rates applied to a package's base price.
const (
	almosaferRate = 0.10
	shukranRate   = 0.20
	firstMarkup   = 1.10
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// sanePrice coerces negative and non-finite input to 0.
func sanePrice(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// DerivePoints computes both loyalty-point fields from a base price.
// It is the single source of truth: form previews and persistence-time
// normalization must both go through here so the two agree bit-for-bit.
func DerivePoints(basePrice float64) (almosafer, shukran float64) {
	base := round2(sanePrice(basePrice))
	return round2(base * almosaferRate), round2(base * shukranRate)
}

// NormalizePackage rounds the base price, defaults FirstPrice to base*1.10
// when unset, and overwrites both point fields from the base price.
// Client-supplied point values are ignored.
func NormalizePackage(p RoomPackage) RoomPackage {
	p.BasePrice = round2(sanePrice(p.BasePrice))
	if p.FirstPrice <= 0 {
		p.FirstPrice = round2(p.BasePrice * firstMarkup)
	} else {
		p.FirstPrice = round2(sanePrice(p.FirstPrice))
	}
	p.AlmosaferPoints, p.ShukranPoints = DerivePoints(p.BasePrice)
	return p
}
