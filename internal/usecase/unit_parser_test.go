package usecase

import (
	"testing"

	"github.com/schappie/backend/internal/domain"
)

func floatPtr(v float64) *float64 { return &v }

func assertUnitInfo(t *testing.T, got UnitInfo, wantUnit domain.Unit, wantPPU float64, wantLabel string) {
	t.Helper()
	if got.Unit != wantUnit {
		t.Errorf("Unit = %q, want %q", got.Unit, wantUnit)
	}
	if got.PricePerUnit == nil {
		t.Fatalf("PricePerUnit = nil, want %v", wantPPU)
	}
	if *got.PricePerUnit != wantPPU {
		t.Errorf("PricePerUnit = %v, want %v", *got.PricePerUnit, wantPPU)
	}
	if got.PPULabel != wantLabel {
		t.Errorf("PPULabel = %q, want %q", got.PPULabel, wantLabel)
	}
}

func TestParseUnit_SizeTextWithPrice(t *testing.T) {
	tests := []struct {
		name      string
		sizeText  string
		price     float64
		wantUnit  domain.Unit
		wantPPU   float64
		wantLabel string
	}{
		{
			name:      "multipack volume",
			sizeText:  "6 x 330 ml",
			price:     3.00,
			wantUnit:  domain.UnitLitre,
			wantPPU:   1.52,
			wantLabel: "€1.52 / L",
		},
		{
			name:      "per stuk",
			sizeText:  "per stuk",
			price:     0.89,
			wantUnit:  domain.UnitPiece,
			wantPPU:   0.89,
			wantLabel: "€0.89 / st",
		},
		{
			name:      "grams to kilograms",
			sizeText:  "500 g",
			price:     2.00,
			wantUnit:  domain.UnitKilogram,
			wantPPU:   4.00,
			wantLabel: "€4.00 / kg",
		},
		{
			name:      "decimal comma litres",
			sizeText:  "1,5 l",
			price:     1.50,
			wantUnit:  domain.UnitLitre,
			wantPPU:   1.00,
			wantLabel: "€1.00 / L",
		},
		{
			name:      "centilitres",
			sizeText:  "70 cl",
			price:     4.90,
			wantUnit:  domain.UnitLitre,
			wantPPU:   7.00,
			wantLabel: "€7.00 / L",
		},
		{
			name:      "piece count",
			sizeText:  "4 stuks",
			price:     2.00,
			wantUnit:  domain.UnitPiece,
			wantPPU:   0.50,
			wantLabel: "€0.50 / st",
		},
		{
			name:      "unparseable size falls back to piece",
			sizeText:  "voordeelverpakking",
			price:     3.49,
			wantUnit:  domain.UnitPiece,
			wantPPU:   3.49,
			wantLabel: "€3.49 / st",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseUnit(UnitInput{
				SizeText:       tt.sizeText,
				EffectivePrice: floatPtr(tt.price),
			})
			assertUnitInfo(t, got, tt.wantUnit, tt.wantPPU, tt.wantLabel)
		})
	}
}

func TestParseUnit_PerUnitStringWins(t *testing.T) {
	tests := []struct {
		name      string
		perUnit   string
		wantUnit  domain.Unit
		wantPPU   float64
		wantLabel string
	}{
		{"plain per kg", "1.29 / kg", domain.UnitKilogram, 1.29, "€1.29 / kg"},
		{"comma decimal per litre", "€2,18/liter", domain.UnitLitre, 2.18, "€2.18 / L"},
		{"per stuk", "0,70/stuk", domain.UnitPiece, 0.70, "€0.70 / st"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Size text and effective price should be ignored
			got := ParseUnit(UnitInput{
				SizeText:       "500 g",
				PerUnitString:  tt.perUnit,
				EffectivePrice: floatPtr(99.99),
			})
			assertUnitInfo(t, got, tt.wantUnit, tt.wantPPU, tt.wantLabel)
		})
	}
}

func TestParseUnit_DirectPerUnitPrice(t *testing.T) {
	got := ParseUnit(UnitInput{
		SizeText:           "500 g",
		DirectPerUnitPrice: floatPtr(3.98),
		EffectivePrice:     floatPtr(1.99),
	})
	assertUnitInfo(t, got, domain.UnitKilogram, 3.98, "€3.98 / kg")

	t.Run("no size text defaults to piece", func(t *testing.T) {
		got := ParseUnit(UnitInput{DirectPerUnitPrice: floatPtr(1.25)})
		assertUnitInfo(t, got, domain.UnitPiece, 1.25, "€1.25 / st")
	})
}

func TestParseUnit_EmptyInput(t *testing.T) {
	got := ParseUnit(UnitInput{})
	if got.Unit != "" || got.PricePerUnit != nil || got.PPULabel != "" {
		t.Errorf("ParseUnit(empty) = %+v, want zero UnitInfo", got)
	}
}

func TestGrabSizeFromText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Coca-Cola 6 x 330 ml blik", "6 x 330 ml"},
		{"Volkorenbrood 800 g", "800 g"},
		{"Eieren 10 stuks", "10 stuks"},
		{"Avocado per stuk", "per stuk"},
		{"Verse jus", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := GrabSizeFromText(tt.in); got != tt.want {
			t.Errorf("GrabSizeFromText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseEuroFloat(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"1.299,95", 1299.95, true},
		{"1,299.95", 1299.95, true},
		{"2,5", 2.5, true},
		{"€3,49", 3.49, true},
		{"1.49", 1.49, true},
		{"1,299", 1299, true}, // three digits after comma is a thousands group
		{"", 0, false},
		{"n.v.t.", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseEuroFloat(tt.in)
		if ok != tt.wantOK {
			t.Errorf("parseEuroFloat(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("parseEuroFloat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
