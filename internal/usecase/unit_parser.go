package usecase

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/schappie/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	ppuStringRegex = regexp.MustCompile(`([\d.]+)\s*/\s*(kg|g|gram|l|liter|ml|cl|dl|stuks?|st)\b`)
	multipackRegex = regexp.MustCompile(`(?:(?:pak|tray|doos|verpakking)\s*)?(\d+)\s*[x×]\s*([\d.,]+)\s*(kg|g|gram|l|liter|ml|cl|dl|stuks?|st)\b`)
	singleSizeRegex = regexp.MustCompile(`([\d.,]+)\s*(kg|g|gram|l|liter|ml|cl|dl)\b`)
	pieceCountRegex = regexp.MustCompile(`(\d+)\s*(stuks?|st|pcs?)\b`)
	perPieceRegex   = regexp.MustCompile(`\bper\s*stuk\b|\bper\s*piece\b`)
	bareStukRegex   = regexp.MustCompile(`\bstuks?\b|\bst\b`)
	sizeInTextRegex = regexp.MustCompile(`(\d+)\s*[x×]\s*([\d.,]+)\s*(kg|g|gram|l|liter|ml|cl|dl)|([\d.,]+)\s*(kg|g|gram|l|liter|ml|cl|dl)\b|(\d+)\s*(stuks?|st|pcs?)\b|\bper\s*stuk\b`)
)

// UnitInput bundles whatever per-unit hints a retailer supplies.
// All fields are optional; the parser resolves them in a fixed priority order.
type UnitInput struct {
	SizeText           string   // free-form package size, e.g. "6 x 330 ml", "per stuk"
	DirectPerUnitPrice *float64 // retailer-precomputed price per unit
	PerUnitString      string   // retailer per-unit string, e.g. "1.29 / kg"
	EffectivePrice     *float64 // promo price if present, else list price
}

// UnitInfo is the canonical per-unit result. The zero value is the
// "unknown" shape: no unit, no price, empty label.
type UnitInfo struct {
	Unit         domain.Unit
	PricePerUnit *float64
	PPULabel     string
}

// ParseUnit normalizes free-form package-size and per-unit hints into one of
// the three canonical units (kg, L, st) and a price per canonical unit.
// Pure and total: insufficient input yields the empty UnitInfo, never an error.
//
// Resolution order:
//  1. a parseable retailer per-unit string wins outright
//  2. a retailer-precomputed per-unit price, unit inferred from the size text
//  3. size text + effective price, dividing price by the parsed total quantity
//  4. effective price alone, treated as price per piece
func ParseUnit(in UnitInput) UnitInfo {
	if ppu, ok := parsePerUnitString(in.PerUnitString); ok {
		return shapeResult(ppu.unit, ppu.value)
	}

	if in.DirectPerUnitPrice != nil && isFiniteFloat(*in.DirectPerUnitPrice) {
		unit := inferBaseUnit(in.SizeText)
		if unit == "" {
			unit = domain.UnitPiece
		}
		return shapeResult(unit, *in.DirectPerUnitPrice)
	}

	if in.EffectivePrice != nil && isFiniteFloat(*in.EffectivePrice) {
		if unit, total, ok := parseTotalQuantity(in.SizeText); ok && total > 0 {
			return shapeResult(unit, *in.EffectivePrice/total)
		}
		// no usable size: one item = one unit
		return shapeResult(domain.UnitPiece, *in.EffectivePrice)
	}

	return UnitInfo{}
}

// perUnitValue is an intermediate parse of a "price / unit" string
type perUnitValue struct {
	unit  domain.Unit
	value float64
}

// parsePerUnitString handles strings like "€1,29/kg", "1.29 / l", "0,70/stuk".
// Gram-, millilitre-, centilitre- and decilitre-denominated figures are scaled
// up to the kilogram/litre base.
func parsePerUnitString(s string) (perUnitValue, bool) {
	if s == "" {
		return perUnitValue{}, false
	}
	txt := strings.ToLower(strings.TrimSpace(s))
	txt = strings.Join(strings.Fields(txt), " ")
	txt = strings.ReplaceAll(txt, ",", ".")

	m := ppuStringRegex.FindStringSubmatch(txt)
	if m == nil {
		return perUnitValue{}, false
	}
	val, ok := parseDotFloat(m[1])
	if !ok {
		return perUnitValue{}, false
	}

	switch m[2] {
	case "g", "gram":
		return perUnitValue{domain.UnitKilogram, val * 1000}, true
	case "ml":
		return perUnitValue{domain.UnitLitre, val * 1000}, true
	case "cl":
		return perUnitValue{domain.UnitLitre, val * 100}, true
	case "dl":
		return perUnitValue{domain.UnitLitre, val * 10}, true
	}

	unit := canonicalUnit(m[2])
	if unit == "" {
		return perUnitValue{}, false
	}
	return perUnitValue{unit, val}, true
}

// parseTotalQuantity reads a total quantity out of a free-form size label:
// multipacks ("6 x 330 ml"), single sizes ("500 g", "0,75 l"), piece counts
// ("3 stuks") and the literal "per stuk". Mass totals come back in kilograms,
// volume totals in litres, piece totals as a count.
func parseTotalQuantity(raw string) (domain.Unit, float64, bool) {
	text := strings.ToLower(strings.TrimSpace(raw))
	text = strings.NewReplacer("(", "", ")", "").Replace(text)
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return "", 0, false
	}

	if perPieceRegex.MatchString(text) {
		return domain.UnitPiece, 1, true
	}

	if m := multipackRegex.FindStringSubmatch(text); m != nil {
		qty, okQ := parseEuroFloat(m[1])
		per, okP := parseEuroFloat(m[2])
		if okQ && okP {
			switch unit := canonicalUnit(m[3]); unit {
			case domain.UnitKilogram, domain.UnitLitre:
				return unit, qty * toBaseQuantity(m[3], per), true
			case domain.UnitPiece:
				if per <= 0 {
					per = 1
				}
				return domain.UnitPiece, qty * per, true
			}
		}
	}

	if m := singleSizeRegex.FindStringSubmatch(text); m != nil {
		if val, ok := parseEuroFloat(m[1]); ok {
			return canonicalUnit(m[2]), toBaseQuantity(m[2], val), true
		}
	}

	if m := pieceCountRegex.FindStringSubmatch(text); m != nil {
		if n, ok := parseEuroFloat(m[1]); ok {
			return domain.UnitPiece, n, true
		}
	}

	if bareStukRegex.MatchString(text) {
		return domain.UnitPiece, 1, true
	}

	return "", 0, false
}

// inferBaseUnit guesses the canonical unit a size text denotes without
// extracting a quantity. Used when the retailer already supplies a numeric
// per-unit price.
func inferBaseUnit(sizeText string) domain.Unit {
	if unit, _, ok := parseTotalQuantity(sizeText); ok {
		return unit
	}
	t := strings.ToLower(sizeText)
	switch {
	case massTokenRegex.MatchString(t):
		return domain.UnitKilogram
	case volumeTokenRegex.MatchString(t):
		return domain.UnitLitre
	case pieceTokenRegex.MatchString(t):
		return domain.UnitPiece
	}
	return ""
}

var (
	massTokenRegex   = regexp.MustCompile(`\b(kg|g|gram)\b`)
	volumeTokenRegex = regexp.MustCompile(`\b(l|liter|ml|cl|dl)\b`)
	pieceTokenRegex  = regexp.MustCompile(`\b(stuks?|st|pcs?)\b`)
)

// GrabSizeFromText extracts a size fragment ("6 x 330 ml", "500 g",
// "3 stuks", "per stuk") out of an arbitrary product title, for retailers
// that only hint at package size inside the name.
func GrabSizeFromText(s string) string {
	if s == "" {
		return ""
	}
	return sizeInTextRegex.FindString(strings.ToLower(s))
}

// canonicalUnit maps a unit token onto kg/L/st
func canonicalUnit(tok string) domain.Unit {
	switch strings.ToLower(tok) {
	case "kg", "kilo", "kilogram", "g", "gram", "grams":
		return domain.UnitKilogram
	case "l", "lt", "liter", "litre", "liters", "ml", "milliliter", "cl", "centiliter", "dl":
		return domain.UnitLitre
	case "st", "stuk", "stuks", "stukken", "pc", "pcs", "piece", "pieces":
		return domain.UnitPiece
	}
	return ""
}

// toBaseQuantity converts a quantity in the given token's unit to the
// kilogram/litre base (grams ÷1000, millilitres ÷1000, centilitres ÷100,
// decilitres ÷10)
func toBaseQuantity(tok string, v float64) float64 {
	switch strings.ToLower(tok) {
	case "g", "gram", "grams":
		return v / 1000
	case "ml":
		return v / 1000
	case "cl":
		return v / 100
	case "dl":
		return v / 10
	}
	return v
}

// shapeResult rounds to cents and renders the display label
func shapeResult(unit domain.Unit, ppu float64) UnitInfo {
	if unit == "" || !isFiniteFloat(ppu) {
		return UnitInfo{}
	}
	rounded := roundCents(ppu)
	return UnitInfo{
		Unit:         unit,
		PricePerUnit: &rounded,
		PPULabel:     fmt.Sprintf("€%.2f / %s", rounded, unit),
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func isFiniteFloat(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// parseDotFloat parses a plain dot-decimal number
func parseDotFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !isFiniteFloat(v) {
		return 0, false
	}
	return v, true
}

// Matches a trailing ",dd" decimal part in European price notation
var euroDecimalRegex = regexp.MustCompile(`,\d{1,2}$`)

// nonNumericRegex strips currency symbols and other noise around a number
var nonNumericRegex = regexp.MustCompile(`[^\d.,-]`)

// parseEuroFloat parses a locale-formatted price. A trailing ",dd" (1-2
// digits) is the decimal separator with "." as thousands separator
// ("1.299,95"); otherwise commas are thousands separators ("1,299.95").
func parseEuroFloat(s string) (float64, bool) {
	clean := strings.TrimSpace(nonNumericRegex.ReplaceAllString(s, ""))
	if clean == "" {
		return 0, false
	}
	if euroDecimalRegex.MatchString(clean) {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	} else {
		clean = strings.ReplaceAll(clean, ",", "")
	}
	return parseDotFloat(clean)
}
