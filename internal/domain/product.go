package domain

// Store identifies one of the supported supermarket chains
type Store string

const (
	StoreAH        Store = "ah"
	StoreJumbo     Store = "jumbo"
	StoreDirk      Store = "dirk"
	StoreAldi      Store = "aldi"
	StoreHoogvliet Store = "hoogvliet"
)

// StoreOrder is the fixed concatenation order for aggregation
var StoreOrder = []Store{StoreAH, StoreDirk, StoreJumbo, StoreAldi, StoreHoogvliet}

// Unit is a canonical package unit: mass in kilograms, volume in litres, or pieces
type Unit string

const (
	UnitKilogram Unit = "kg"
	UnitLitre    Unit = "L"
	UnitPiece    Unit = "st"
)

// Universal category taxonomy. Every product maps onto exactly one of these;
// CategoryOther is the fallback.
const (
	CategoryProduce     = "produce"
	CategoryMeatFishVeg = "meat_fish_veg"
	CategoryDairy       = "dairy"
	CategoryBakery      = "bakery"
	CategoryPantry      = "pantry"
	CategorySnacks      = "snacks"
	CategoryDrinks      = "drinks"
	CategoryAlcohol     = "alcohol"
	CategoryFrozen      = "frozen"
	CategoryHealth      = "health"
	CategoryBaby        = "baby"
	CategoryHousehold   = "household"
	CategoryPet         = "pet"
	CategoryOther       = "other"
)

// CategoryOrder lists the taxonomy in display order
var CategoryOrder = []string{
	CategoryProduce, CategoryMeatFishVeg, CategoryDairy, CategoryBakery,
	CategoryPantry, CategorySnacks, CategoryDrinks, CategoryAlcohol,
	CategoryFrozen, CategoryHealth, CategoryBaby, CategoryHousehold,
	CategoryPet, CategoryOther,
}

// CategoryLabels maps taxonomy keys to Dutch display names
var CategoryLabels = map[string]string{
	CategoryProduce:     "Groente & fruit",
	CategoryMeatFishVeg: "Vlees / Vis / Vega",
	CategoryDairy:       "Zuivel & kaas",
	CategoryBakery:      "Bakkerij & ontbijt",
	CategoryPantry:      "Voorraad / Conserven",
	CategorySnacks:      "Snacks & snoep",
	CategoryDrinks:      "Dranken",
	CategoryAlcohol:     "Bier / Wijn / Sterke drank",
	CategoryFrozen:      "Diepvries",
	CategoryHealth:      "Drogisterij / Gezondheid",
	CategoryBaby:        "Baby & kind",
	CategoryHousehold:   "Huishouden / Non-food",
	CategoryPet:         "Huisdieren",
	CategoryOther:       "Overig",
}

// IsUniversalCategory reports whether c is a member of the fixed taxonomy
func IsUniversalCategory(c string) bool {
	for _, u := range CategoryOrder {
		if c == u {
			return true
		}
	}
	return false
}

// Labels holds independent boolean product flags (organic, seasonal, ...).
// Keys: bio, special, conscious, glutenfree, seasonal.
type Labels map[string]bool

// Product is the canonical product shape all retailer feeds normalize into.
// It is an immutable derived value; a fresh aggregation replaces the whole list.
type Product struct {
	Store           Store    `json:"store"`
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Brand           string   `json:"brand"`
	RawCategory     string   `json:"rawCategory"`
	UnifiedCategory string   `json:"unifiedCategory"`
	Price           *float64 `json:"price"`
	PromoPrice      *float64 `json:"promoPrice"`
	PromoEnd        string   `json:"promoEnd,omitempty"`
	Unit            Unit     `json:"unit,omitempty"`
	PricePerUnit    *float64 `json:"pricePerUnit"`
	PPULabel        string   `json:"ppuLabel"`
	Image           string   `json:"image,omitempty"`
	Link            string   `json:"link,omitempty"`
	Labels          Labels   `json:"labels"`
}

// EffectivePrice returns the promo price when set, otherwise the list price.
// Returns nil when the product has no price at all.
func (p *Product) EffectivePrice() *float64 {
	if p.PromoPrice != nil {
		return p.PromoPrice
	}
	return p.Price
}

// ScoredProduct is a product plus a transient per-query relevance score.
// The score is not part of the stored entity.
type ScoredProduct struct {
	Product
	Score float64 `json:"score"`
}

// LearnedBoosts maps lowercased query -> unified category -> weight in [0,1].
// Loaded once at startup from historical selection data; may be nil.
type LearnedBoosts map[string]map[string]float64

// CategoryInfo pairs a taxonomy key with its display label
type CategoryInfo struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// BasketItem is one resolved shopping-list entry in a store basket
type BasketItem struct {
	Query   string  `json:"query"`
	Product Product `json:"product"`
}

// StoreBasket is one store's resolution of a shopping list. Complete is false
// when one or more queries had no acceptable match at that store.
type StoreBasket struct {
	Store    Store        `json:"store"`
	Items    []BasketItem `json:"items"`
	Missing  []string     `json:"missing,omitempty"`
	Total    float64      `json:"total"`
	Complete bool         `json:"complete"`
}

// StoreComparison is the full cross-store price comparison for a shopping
// list, ordered complete-baskets-first then by total ascending
type StoreComparison struct {
	Queries []string      `json:"queries"`
	Stores  []StoreBasket `json:"stores"`
}
