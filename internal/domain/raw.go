package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// PriceValue holds a raw price exactly as a retailer feed supplied it: a JSON
// number, a locale-formatted string ("1.299,95"), or absent/null. Parsing into
// a float happens in the normalizers, which own the locale rules.
type PriceValue struct {
	Raw     string
	Present bool
}

// UnmarshalJSON accepts numbers, strings and null
func (v *PriceValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = PriceValue{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = PriceValue{Raw: s, Present: s != ""}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = PriceValue{Raw: n.String(), Present: true}
	return nil
}

// FlexString decodes a JSON string or number into a string. Retailer ids show
// up both ways across feeds.
type FlexString string

// UnmarshalJSON accepts strings, numbers and null
func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FlexString(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = FlexString(n.String())
	return nil
}

// FloatValue wraps an optional JSON number
type FloatValue struct {
	Value   float64
	Present bool
}

// UnmarshalJSON accepts numbers, numeric strings and null
func (f *FloatValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = FloatValue{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = FloatValue{}
			return nil
		}
		*f = FloatValue{Value: v, Present: true}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = FloatValue{Value: v, Present: true}
	return nil
}

// AHTaxonomy is one node of Albert Heijn's category path
type AHTaxonomy struct {
	Name string `json:"name"`
}

// AHImage is one rendition in Albert Heijn's image list
type AHImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// AHUnitInfo carries Albert Heijn's precomputed per-unit price
type AHUnitInfo struct {
	Price       FloatValue `json:"price"`
	Description string     `json:"description"`
}

// AHPrice is Albert Heijn's nested price block
type AHPrice struct {
	Now      PriceValue  `json:"now"`
	Was      PriceValue  `json:"was"`
	UnitSize string      `json:"unitSize"`
	UnitInfo *AHUnitInfo `json:"unitInfo"`
}

// AHDiscount carries Albert Heijn's promotion window
type AHDiscount struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// AHRecord is a raw Albert Heijn product as scraped
type AHRecord struct {
	ID         FlexString   `json:"id"`
	HqID       FlexString   `json:"hqId"`
	SKU        FlexString   `json:"sku"`
	Title      string       `json:"title"`
	Name       string       `json:"name"`
	Brand      string       `json:"brand"`
	Category   string       `json:"category"`
	Taxonomies []AHTaxonomy `json:"taxonomies"`
	Price      AHPrice      `json:"price"`
	UnitSize   string       `json:"unitSize"`
	Unit       string       `json:"unit"`
	Discount   *AHDiscount  `json:"discount"`
	PromoEnd   string       `json:"promoEnd"`
	Images     []AHImage    `json:"images"`
	Image      string       `json:"image"`
	Link       string       `json:"link"`
	URL        string       `json:"url"`
}

// JumboPerUnit is Jumbo's precomputed per-unit price
type JumboPerUnit struct {
	Price FloatValue `json:"price"`
	Unit  string     `json:"unit"`
}

// JumboPrices is Jumbo's price block
type JumboPrices struct {
	Regular PriceValue    `json:"regular"`
	Final   PriceValue    `json:"final"`
	Promo   PriceValue    `json:"promo"`
	PerUnit *JumboPerUnit `json:"perUnit"`
}

// JumboPromoInfo carries the human-readable promo window ("di 28 okt")
type JumboPromoInfo struct {
	Until string `json:"until"`
}

// JumboRecord is a raw Jumbo product as scraped
type JumboRecord struct {
	ID        FlexString      `json:"id"`
	Title     string          `json:"title"`
	Brand     string          `json:"brand"`
	Category  string          `json:"category"`
	Prices    JumboPrices     `json:"prices"`
	PromoInfo *JumboPromoInfo `json:"promoInfo"`
	Image     string          `json:"image"`
	Link      string          `json:"link"`
}

// DirkRecord is a raw Dirk product as scraped
type DirkRecord struct {
	ProductID     FlexString `json:"productId"`
	Name          string     `json:"name"`
	Brand         string     `json:"brand"`
	CategoryLabel string     `json:"categoryLabel"`
	NormalPrice   PriceValue `json:"normalPrice"`
	OfferPrice    PriceValue `json:"offerPrice"`
	Packaging     string     `json:"packaging"`
	Image         string     `json:"image"`
	Link          string     `json:"link"`
}

// AldiRecord is a raw Aldi product as scraped
type AldiRecord struct {
	ID         FlexString `json:"id"`
	Title      string     `json:"title"`
	Brand      string     `json:"brand"`
	Category   string     `json:"category"`
	Price      FloatValue `json:"price"`
	PromoPrice FloatValue `json:"promoPrice"`
	Unit       string     `json:"unit"`
	Image      string     `json:"image"`
	Link       string     `json:"link"`
}

// HoogvlietPromotion is one entry of Hoogvliet's promotions list
type HoogvlietPromotion struct {
	ValidUntil string `json:"validUntil"`
}

// HoogvlietRecord is a raw Hoogvliet product as scraped
type HoogvlietRecord struct {
	ID                FlexString           `json:"id"`
	Title             string               `json:"title"`
	Name              string               `json:"name"`
	Brand             string               `json:"brand"`
	Category          string               `json:"category"`
	CategoryHierarchy string               `json:"categoryHierarchy"`
	ListPrice         PriceValue           `json:"listPrice"`
	Price             PriceValue           `json:"price"`
	PromoPrice        PriceValue           `json:"promoPrice"`
	DiscountedPrice   PriceValue           `json:"discountedPrice"`
	PricePerUnit      string               `json:"price_per_unit"`
	Unit              string               `json:"unit"`
	PromoEnd          string               `json:"promoEnd"`
	Promotions        []HoogvlietPromotion `json:"promotions"`
	Image             string               `json:"image"`
	Link              string               `json:"link"`
}

// RawPayload bundles one aggregation pass worth of raw feeds, keyed per store
type RawPayload struct {
	AH        []AHRecord        `json:"ah"`
	Dirk      []DirkRecord      `json:"dirk"`
	Jumbo     []JumboRecord     `json:"jumbo"`
	Aldi      []AldiRecord      `json:"aldi"`
	Hoogvliet []HoogvlietRecord `json:"hoogvliet"`
}
