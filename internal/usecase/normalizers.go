package usecase

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/schappie/backend/internal/domain"
)

// Each retailer feed has its own ad hoc schema; one normalizer per retailer
// maps it onto domain.Product. Normalizers are pure: missing optional fields
// degrade to nil/defaults, and the only failure mode is a record without a
// usable name (domain.ErrMalformedRecord).

// priceFrom parses a retailer-supplied PriceValue into a float pointer
func priceFrom(v domain.PriceValue) *float64 {
	if !v.Present {
		return nil
	}
	f, ok := parseEuroFloat(v.Raw)
	if !ok {
		return nil
	}
	return &f
}

// promoBelow keeps promo only when strictly below the list price
func promoBelow(promo, list *float64) *float64 {
	if promo == nil || list == nil || *promo >= *list {
		return nil
	}
	return promo
}

// firstNonEmpty returns the first non-empty string
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// defaultBrand falls back to the first whitespace-delimited token of the name
func defaultBrand(brand, name string) string {
	if brand != "" {
		return brand
	}
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// ahRenditionRegex matches AH's "rendition=200x200" image URL parameter;
// ahPathSizeRegex is the "/200x200_..." path fallback.
var (
	ahRenditionRegex = regexp.MustCompile(`(?i)rendition=(\d+)x(\d+)`)
	ahPathSizeRegex  = regexp.MustCompile(`(?i)/(\d+)x(\d+)[^/]*$`)
	jumboFitInRegex  = regexp.MustCompile(`fit-in/\d+x\d+/`)
)

// smallestAHImage picks the smallest rendition from AH's image list.
// Unparseable sizes are kept only as a last-resort fallback.
func smallestAHImage(images []domain.AHImage) string {
	best := ""
	bestArea := -1
	for _, img := range images {
		if img.URL == "" {
			continue
		}
		m := ahRenditionRegex.FindStringSubmatch(img.URL)
		if m == nil {
			m = ahPathSizeRegex.FindStringSubmatch(img.URL)
		}
		if m == nil {
			if best == "" {
				best = img.URL
			}
			continue
		}
		w, _ := strconv.Atoi(m[1])
		h, _ := strconv.Atoi(m[2])
		if area := w * h; bestArea < 0 || area < bestArea {
			bestArea = area
			best = img.URL
		}
	}
	return best
}

// NormalizeAH maps a raw Albert Heijn record onto the canonical shape.
// List price is "was" when present, else "now"; promo is "now" only when
// strictly below "was".
func NormalizeAH(p domain.AHRecord) (domain.Product, error) {
	name := firstNonEmpty(p.Title, p.Name)
	if name == "" {
		return domain.Product{}, domain.ErrMalformedRecord
	}

	now := priceFrom(p.Price.Now)
	was := priceFrom(p.Price.Was)

	price := now
	if was != nil {
		price = was
	}
	promoPrice := promoBelow(now, was)

	eff := promoPrice
	if eff == nil {
		eff = price
	}

	var direct *float64
	if p.Price.UnitInfo != nil && p.Price.UnitInfo.Price.Present {
		direct = &p.Price.UnitInfo.Price.Value
	}
	sizeText := firstNonEmpty(p.Price.UnitSize, p.UnitSize, p.Unit)

	unitInfo := ParseUnit(UnitInput{
		SizeText:           sizeText,
		DirectPerUnitPrice: direct,
		EffectivePrice:     eff,
	})

	promoEnd := p.PromoEnd
	if p.Discount != nil && p.Discount.EndDate != "" {
		promoEnd = p.Discount.EndDate
	}

	rawCategory := p.Category
	if rawCategory == "" && len(p.Taxonomies) > 0 {
		names := make([]string, 0, len(p.Taxonomies))
		for _, t := range p.Taxonomies {
			if t.Name != "" {
				names = append(names, t.Name)
			}
		}
		rawCategory = strings.Join(names, " > ")
	}

	image := firstNonEmpty(smallestAHImage(p.Images), p.Image)
	cls := Classify(rawCategory, name)

	return domain.Product{
		Store:           domain.StoreAH,
		ID:              firstNonEmpty(string(p.ID), string(p.HqID), string(p.SKU)),
		Name:            name,
		Brand:           defaultBrand(p.Brand, name),
		RawCategory:     rawCategory,
		UnifiedCategory: cls.Category,
		Price:           price,
		PromoPrice:      promoPrice,
		PromoEnd:        promoEnd,
		Unit:            unitInfo.Unit,
		PricePerUnit:    unitInfo.PricePerUnit,
		PPULabel:        unitInfo.PPULabel,
		Image:           image,
		Link:            firstNonEmpty(p.Link, p.URL),
		Labels:          cls.Labels,
	}, nil
}

// NormalizeJumbo maps a raw Jumbo record onto the canonical shape.
// List price is "regular" when present, else "final"; promo prefers the
// explicit promo figure, falling back to "final", each only when strictly
// below "regular".
func NormalizeJumbo(p domain.JumboRecord) (domain.Product, error) {
	if p.Title == "" {
		return domain.Product{}, domain.ErrMalformedRecord
	}

	regular := priceFrom(p.Prices.Regular)
	final := priceFrom(p.Prices.Final)
	promo := priceFrom(p.Prices.Promo)

	price := regular
	if price == nil {
		price = final
	}
	promoPrice := promoBelow(promo, regular)
	if promoPrice == nil {
		promoPrice = promoBelow(final, regular)
	}

	eff := promoPrice
	if eff == nil {
		eff = price
	}

	perUnitString := ""
	if p.Prices.PerUnit != nil && p.Prices.PerUnit.Price.Present && p.Prices.PerUnit.Unit != "" {
		perUnitString = fmt.Sprintf("%g / %s", p.Prices.PerUnit.Price.Value, strings.ToLower(p.Prices.PerUnit.Unit))
	}

	unitInfo := ParseUnit(UnitInput{
		SizeText:       GrabSizeFromText(p.Title),
		PerUnitString:  perUnitString,
		EffectivePrice: eff,
	})

	promoEnd := ""
	if p.PromoInfo != nil {
		promoEnd = p.PromoInfo.Until
	}

	image := p.Image
	if image != "" {
		image = jumboFitInRegex.ReplaceAllString(image, "fit-in/120x120/")
	}

	cls := Classify(p.Category, p.Title)

	return domain.Product{
		Store:           domain.StoreJumbo,
		ID:              string(p.ID),
		Name:            p.Title,
		Brand:           defaultBrand(p.Brand, p.Title),
		RawCategory:     p.Category,
		UnifiedCategory: cls.Category,
		Price:           price,
		PromoPrice:      promoPrice,
		PromoEnd:        promoEnd,
		Unit:            unitInfo.Unit,
		PricePerUnit:    unitInfo.PricePerUnit,
		PPULabel:        unitInfo.PPULabel,
		Image:           image,
		Link:            p.Link,
		Labels:          cls.Labels,
	}, nil
}

// dirkCDNHost fronts Dirk's relative image paths
const dirkCDNHost = "https://d3r3h30p75xj6a.cloudfront.net/"

// NormalizeDirk maps a raw Dirk record onto the canonical shape. Dirk always
// carries a normal price; the offer price counts only when positive and
// strictly below it. Products without a parseable size fall back to the
// piece unit with the effective price as PPU.
func NormalizeDirk(p domain.DirkRecord) (domain.Product, error) {
	if p.Name == "" {
		return domain.Product{}, domain.ErrMalformedRecord
	}

	price := priceFrom(p.NormalPrice)
	offer := priceFrom(p.OfferPrice)
	if offer != nil && *offer <= 0 {
		offer = nil
	}
	promoPrice := promoBelow(offer, price)

	eff := promoPrice
	if eff == nil {
		eff = price
	}

	sizeText := firstNonEmpty(p.Packaging, GrabSizeFromText(p.Name))
	unitInfo := ParseUnit(UnitInput{
		SizeText:       sizeText,
		EffectivePrice: eff,
	})

	image := p.Image
	if image != "" {
		image = dirkCDNHost + image
		if !strings.Contains(image, "?") {
			image += "?width=120"
		}
	}

	cls := Classify(p.CategoryLabel, p.Name)

	return domain.Product{
		Store:           domain.StoreDirk,
		ID:              string(p.ProductID),
		Name:            p.Name,
		Brand:           defaultBrand(p.Brand, p.Name),
		RawCategory:     p.CategoryLabel,
		UnifiedCategory: cls.Category,
		Price:           price,
		PromoPrice:      promoPrice,
		Unit:            unitInfo.Unit,
		PricePerUnit:    unitInfo.PricePerUnit,
		PPULabel:        unitInfo.PPULabel,
		Image:           image,
		Link:            p.Link,
		Labels:          cls.Labels,
	}, nil
}

// NormalizeAldi maps a raw Aldi record onto the canonical shape. Aldi supplies
// a single price, an optional discounted price and a bare unit token; PPU is
// the effective price per that unit.
func NormalizeAldi(p domain.AldiRecord) (domain.Product, error) {
	if p.Title == "" {
		return domain.Product{}, domain.ErrMalformedRecord
	}

	var price, promoPrice *float64
	if p.Price.Present {
		price = &p.Price.Value
	}
	if p.PromoPrice.Present {
		promoPrice = promoBelow(&p.PromoPrice.Value, price)
	}

	eff := promoPrice
	if eff == nil {
		eff = price
	}

	unit := canonicalUnit(p.Unit)
	if unit == "" {
		unit = domain.UnitPiece
	}
	unitInfo := UnitInfo{}
	if eff != nil {
		unitInfo = shapeResult(unit, *eff)
	}

	cls := Classify(p.Category, p.Title)

	return domain.Product{
		Store:           domain.StoreAldi,
		ID:              string(p.ID),
		Name:            p.Title,
		Brand:           defaultBrand(p.Brand, p.Title),
		RawCategory:     p.Category,
		UnifiedCategory: cls.Category,
		Price:           price,
		PromoPrice:      promoPrice,
		Unit:            unit,
		PricePerUnit:    unitInfo.PricePerUnit,
		PPULabel:        unitInfo.PPULabel,
		Image:           p.Image,
		Link:            p.Link,
		Labels:          cls.Labels,
	}, nil
}

// NormalizeHoogvliet maps a raw Hoogvliet record onto the canonical shape.
// Hoogvliet mixes sources: an optional per-unit string ("1.29 / l"), a unit
// field that sometimes holds a size ("500 g"), and a promotions list whose
// first validUntil entry ends the promo.
func NormalizeHoogvliet(p domain.HoogvlietRecord) (domain.Product, error) {
	name := firstNonEmpty(p.Title, p.Name)
	if name == "" {
		return domain.Product{}, domain.ErrMalformedRecord
	}

	price := priceFrom(p.ListPrice)
	if price == nil {
		price = priceFrom(p.Price)
	}
	promo := priceFrom(p.PromoPrice)
	if promo == nil {
		promo = priceFrom(p.DiscountedPrice)
	}
	promoPrice := promoBelow(promo, price)

	eff := promoPrice
	if eff == nil {
		eff = price
	}

	sizeText := firstNonEmpty(strings.TrimSpace(p.Unit), GrabSizeFromText(name))
	unitInfo := ParseUnit(UnitInput{
		SizeText:       sizeText,
		PerUnitString:  p.PricePerUnit,
		EffectivePrice: eff,
	})

	promoEnd := p.PromoEnd
	if promoEnd == "" {
		for _, pr := range p.Promotions {
			if pr.ValidUntil != "" {
				promoEnd = pr.ValidUntil
				break
			}
		}
	}

	rawCategory := firstNonEmpty(p.CategoryHierarchy, p.Category)
	cls := Classify(rawCategory, name)

	return domain.Product{
		Store:           domain.StoreHoogvliet,
		ID:              string(p.ID),
		Name:            name,
		Brand:           defaultBrand(p.Brand, name),
		RawCategory:     rawCategory,
		UnifiedCategory: cls.Category,
		Price:           price,
		PromoPrice:      promoPrice,
		PromoEnd:        promoEnd,
		Unit:            unitInfo.Unit,
		PricePerUnit:    unitInfo.PricePerUnit,
		PPULabel:        unitInfo.PPULabel,
		Image:           p.Image,
		Link:            p.Link,
		Labels:          cls.Labels,
	}, nil
}

// NormalizeAll fans a raw multi-retailer payload through the per-store
// normalizers in the fixed store order (ah, dirk, jumbo, aldi, hoogvliet),
// drops malformed records, and assigns globally unique ids. A retailer id is
// kept only on first sight; collisions and missing ids get "{store}_{index}"
// so two stores reusing the same small integer id can never clash.
func NormalizeAll(payload domain.RawPayload) []domain.Product {
	all := make([]domain.Product, 0,
		len(payload.AH)+len(payload.Dirk)+len(payload.Jumbo)+len(payload.Aldi)+len(payload.Hoogvliet))

	for _, r := range payload.AH {
		if p, err := NormalizeAH(r); err == nil {
			all = append(all, p)
		}
	}
	for _, r := range payload.Dirk {
		if p, err := NormalizeDirk(r); err == nil {
			all = append(all, p)
		}
	}
	for _, r := range payload.Jumbo {
		if p, err := NormalizeJumbo(r); err == nil {
			all = append(all, p)
		}
	}
	for _, r := range payload.Aldi {
		if p, err := NormalizeAldi(r); err == nil {
			all = append(all, p)
		}
	}
	for _, r := range payload.Hoogvliet {
		if p, err := NormalizeHoogvliet(r); err == nil {
			all = append(all, p)
		}
	}

	seen := make(map[string]bool, len(all))
	for i := range all {
		id := all[i].ID
		if id == "" || seen[id] {
			id = fmt.Sprintf("%s_%d", all[i].Store, i)
		}
		seen[id] = true
		all[i].ID = id
	}

	return all
}
