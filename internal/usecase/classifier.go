package usecase

import (
	"regexp"
	"strings"

	"github.com/schappie/backend/internal/domain"
)

// labelRule detects one independent boolean product label
type labelRule struct {
	key string
	rx  *regexp.Regexp
}

// labelRules run against category+title concatenated. Labels are not
// mutually exclusive and never influence the category itself.
var labelRules = []labelRule{
	{"bio", regexp.MustCompile(`(?i)\b(bio|biologisch)\b`)},
	{"special", regexp.MustCompile(`(?i)\b(speciaal assortiment)\b`)},
	{"conscious", regexp.MustCompile(`(?i)\b(bewust|bewuste voeding)\b`)},
	{"glutenfree", regexp.MustCompile(`(?i)\b(glutenvrij)\b`)},
	{"seasonal", regexp.MustCompile(`(?i)\b(tijdelijk|feestweken|barbecue|bbq|seizoens)\b`)},
}

// categoryRule maps a retailer category/title pattern onto the universal
// taxonomy. A non-nil unless pattern vetoes the match (RE2 has no lookahead).
type categoryRule struct {
	rx     *regexp.Regexp
	unless *regexp.Regexp
	to     string
}

// categoryRules is ordered; the first match wins. Tried against the raw
// category text first, then against the title.
var categoryRules = []categoryRule{
	{rx: regexp.MustCompile(`(?i)aardappelen|groente|fruit|verse sappen`), to: domain.CategoryProduce},
	{rx: regexp.MustCompile(`(?i)vleeswaren?|vlees\b|vis\b|vega|vegetarisch`), to: domain.CategoryMeatFishVeg},
	{rx: regexp.MustCompile(`(?i)zuivel|eieren|kaas|plantaardig`), to: domain.CategoryDairy},
	{rx: regexp.MustCompile(`(?i)\bbrood\b|ontbijt|beleg`), unless: regexp.MustCompile(`(?i)beleg.*tapas`), to: domain.CategoryBakery},
	{rx: regexp.MustCompile(`(?i)soepen|conserven|sauzen|kruiden|olie|pasta|rijst|wereldkeuken`), to: domain.CategoryPantry},
	{rx: regexp.MustCompile(`(?i)chips|zoutjes|noten|koek|snoep|chocolade|zelf bakken`), to: domain.CategorySnacks},
	{rx: regexp.MustCompile(`(?i)frisdrank|sappen|water|koffie|thee`), to: domain.CategoryDrinks},
	{rx: regexp.MustCompile(`(?i)bier|wijn|aperitieven|sterke drank|alcohol`), to: domain.CategoryAlcohol},
	{rx: regexp.MustCompile(`(?i)\bdiepvries\b`), to: domain.CategoryFrozen},
	{rx: regexp.MustCompile(`(?i)drogisterij|verzorging|gezondheid|cosmetica|sport`), to: domain.CategoryHealth},
	{rx: regexp.MustCompile(`(?i)\bbaby\b|kind\b`), to: domain.CategoryBaby},
	{rx: regexp.MustCompile(`(?i)huishoud|non-?food|koken|tafelen|vrije tijd|servicebalie`), to: domain.CategoryHousehold},
	{rx: regexp.MustCompile(`(?i)huisdier(en)?|dieren`), to: domain.CategoryPet},
}

func (r categoryRule) matches(s string) bool {
	if !r.rx.MatchString(s) {
		return false
	}
	return r.unless == nil || !r.unless.MatchString(s)
}

// Hoogvliet and AH file drugstore and baby products under one composite
// category; the title decides which side a product lands on.
var (
	pharmacyBabyRegex = regexp.MustCompile(`(?i)\bdrogisterij.*baby|baby.*drogisterij`)
	babyHintsRegex    = regexp.MustCompile(`(?i)\b(baby|luiers?|billendoekjes|flesvoeding|papje|potjes|zwitsal|babyvoeding)\b`)
)

// preNormalizeRules correct known retailer-specific category spellings before
// classification. Safe to extend; unrelated inputs pass through untouched.
var preNormalizeRules = []struct {
	rx *regexp.Regexp
	to string
}{
	{regexp.MustCompile(`(?i)^verse maaltijden(,|\s) salades$`), "Maaltijden, salades"},
	{regexp.MustCompile(`(?i)vlees, vis, vega(etarisch)?`), "Vlees, vis, vegetarisch"},
	{regexp.MustCompile(`(?i)frisdrank(,|\s) sappen(,|\s) water`), "Frisdrank en sappen"},
}

// Classification is the classifier output: one taxonomy member plus
// independent boolean labels
type Classification struct {
	Category string
	Labels   domain.Labels
}

// Classify maps a retailer's free-text category and product title onto the
// universal taxonomy. The returned category is always a taxonomy member;
// unmatched input lands on "other".
func Classify(rawCategory, title string) Classification {
	category := PreNormalizeCategory(rawCategory)
	src := strings.TrimSpace(category + " " + title)

	labels := make(domain.Labels, len(labelRules))
	for _, r := range labelRules {
		labels[r.key] = r.rx.MatchString(src)
	}

	if pharmacyBabyRegex.MatchString(category) {
		if babyHintsRegex.MatchString(title) {
			return Classification{domain.CategoryBaby, labels}
		}
		return Classification{domain.CategoryHealth, labels}
	}

	for _, rule := range categoryRules {
		if rule.matches(category) {
			return Classification{rule.to, labels}
		}
	}
	for _, rule := range categoryRules {
		if rule.matches(title) {
			return Classification{rule.to, labels}
		}
	}

	return Classification{domain.CategoryOther, labels}
}

// PreNormalizeCategory collapses known retailer category spelling variants
// into a canonical phrase
func PreNormalizeCategory(raw string) string {
	c := strings.TrimSpace(raw)
	if c == "" {
		return ""
	}
	for _, r := range preNormalizeRules {
		if r.rx.MatchString(c) {
			c = r.to
		}
	}
	return c
}

// UnifyCategory returns just the taxonomy member for a raw category + title
func UnifyCategory(rawCategory, title string) string {
	cls := Classify(rawCategory, title)
	if domain.IsUniversalCategory(cls.Category) {
		return cls.Category
	}
	return domain.CategoryOther
}
