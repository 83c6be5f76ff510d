package usecase

import (
	"log"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/schappie/backend/internal/domain"
)

// Field weights for fuzzy scoring
const (
	weightName     = 0.6
	weightBrand    = 0.3
	weightCategory = 0.1
)

// Prefix bonuses on top of Levenshtein similarity
const (
	fieldPrefixBonus = 0.15 // field starts with the term
	wordPrefixBonus  = 0.10 // any word in the field starts with the term
)

// Sort modes accepted by Search
const (
	SortByScore = "score"
	SortByPPU   = "ppu"
	SortByPrice = "price"
	SortByAlpha = "alpha"
	SortByPromo = "promo"
)

// queryNormalizeRegex strips punctuation, keeping letters and digits of any script
var queryNormalizeRegex = regexp.MustCompile(`[^\p{L}\p{N}\s]`)

// wordVariants maps a query token to its morphological variants
// (singular/plural pairs, mostly produce)
var wordVariants = map[string][]string{
	"banaan":      {"bananen"},
	"appel":       {"appels"},
	"ei":          {"eieren"},
	"tomaat":      {"tomaten"},
	"aardappel":   {"aardappelen"},
	"wortel":      {"wortels"},
	"vis":         {"vissen"},
	"kip":         {"kippen"},
	"boon":        {"bonen"},
	"ui":          {"uien"},
	"kaas":        {"kazen"},
	"brood":       {"broden"},
	"fles":        {"flessen"},
	"bloem":       {"bloemen"},
	"druif":       {"druiven"},
	"peer":        {"peren"},
	"citroen":     {"citroenen"},
	"sinaasappel": {"sinaasappels"},
	"noot":        {"noten"},
	"koek":        {"koeken"},
	"worst":       {"worsten"},
	"ijs":         {"ijsjes"},
	"aardbei":     {"aardbeien"},
}

// synonyms maps a query token to category-level alternatives
var synonyms = map[string][]string{
	"wc":             {"toilet", "toiletpapier", "wc papier"},
	"toiletpapier":   {"wc papier", "wc"},
	"pasta":          {"spaghetti", "penne", "macaroni"},
	"snoep":          {"chocolade", "koekjes"},
	"bier":           {"pils"},
	"melk":           {"halfvolle melk", "volle melk", "sojamelk", "havermelk"},
	"brood":          {"bolletjes", "stokbrood"},
	"vleesvervanger": {"vega", "vegetarisch"},
	"cola":           {"coke", "zero", "light"},
}

// semanticBlocklist zeroes out products whose name contains a term that makes
// them irrelevant for the query despite a textual match. Hand-curated and
// deliberately data-driven so membership can be tuned without code changes.
var semanticBlocklist = map[string][]string{
	"water":  {"waterdicht", "waterproof", "waterkoker", "waterverf", "waterijsjes"},
	"melk":   {"melkchocolade", "melkzeep", "melkopschuimer"},
	"kaas":   {"kaasschaaf", "kaasstengel", "kaasplank", "kaasbroodje"},
	"ei":     {"eierwekker", "eiersnijder", "eierdop"},
	"pasta":  {"tandpasta", "verfpasta", "pleisterpasta"},
	"chips":  {"microchip", "chipkaart", "computerchip"},
	"olie":   {"massageolie", "etherische", "gezichtsolie", "haarolie"},
	"boter":  {"bodybutter"},
	"zout":   {"zoutlamp", "zoutsteen", "badzout"},
	"koffie": {"koffiemok", "koffiezetapparaat", "koffiepad"},
	"thee":   {"theemok", "theepot", "theedoek"},
	"wijn":   {"wijnrek", "wijnkoeler", "wijnflesopener"},
	"bier":   {"bierglas", "bieropener", "bierkrat"},
	"cola":   {"chocola", "dulcolax", "peijnenburg", "sinas", "orange", "lemon", "mango", "tea", "rucola", "citrus", "breaker"},
	"banaan": {"bananenboom", "bananenchips", "baby", "kids", "junior"},
}

// fruitKeywords triggers the fresh-fruit intent heuristics for single-word queries
var fruitKeywords = map[string]bool{
	"aardbei": true, "aardbeien": true, "banaan": true, "bananen": true,
	"appel": true, "appels": true, "peer": true, "peren": true,
	"druif": true, "druiven": true, "mango": true, "ananas": true,
	"perzik": true, "kiwi": true, "sinaasappel": true, "citroen": true,
	"watermeloen": true, "mandarijn": true, "framboos": true, "bosbes": true,
	"blauwe bes": true, "blauwebes": true,
}

// fruitContextBlockers penalize dessert/snack products on fruit queries
var fruitContextBlockers = []string{
	"yoghurt", "kwark", "vla", "dessert", "toetje", "smoothie", "ijs",
	"baby", "babyvoeding", "snack", "cake", "taart", "koek", "reep",
	"pudding", "drink", "fristi",
}

// SearchConfig holds configuration for the search service
type SearchConfig struct {
	Boosts             domain.LearnedBoosts
	EnableDebugLogging bool
}

// SearchService scores and ranks canonical products against free-text
// queries. Stateless apart from the learned-boosts snapshot, which is set
// once at construction and never mutated.
type SearchService struct {
	boosts             domain.LearnedBoosts
	enableDebugLogging bool
}

// NewSearchService creates a search service. A nil boosts table disables the
// learned-boost factor.
func NewSearchService(config SearchConfig) *SearchService {
	return &SearchService{
		boosts:             config.Boosts,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// SearchOptions narrows the candidate set and picks the ranking order.
// A nil EnabledStores means all stores are enabled.
type SearchOptions struct {
	EnabledStores map[domain.Store]bool
	Category      string
	Sort          string
}

// Search ranks products against a free-text query. Queries under 2 normalized
// characters yield an empty list. Every query word must match at least weakly
// somewhere in a product or the product is eliminated.
func (s *SearchService) Search(products []domain.Product, query string, opts SearchOptions) []domain.ScoredProduct {
	q := normalizeQuery(query)
	if len([]rune(q)) < 2 {
		return []domain.ScoredProduct{}
	}

	tokens := strings.Fields(q)
	groups := make([][]string, 0, len(tokens))
	for _, tok := range tokens {
		groups = append(groups, tokenGroup(tok))
	}

	threshold := adaptiveThreshold(q)
	fruitQuery := len(tokens) == 1 && fruitKeywords[tokens[0]]
	queryHasBaby := strings.Contains(q, "baby")

	if s.enableDebugLogging {
		log.Printf("[SEARCH] query=%q tokens=%d threshold=%.2f", q, len(groups), threshold)
	}

	results := make([]domain.ScoredProduct, 0, 32)
	for i := range products {
		p := &products[i]
		if opts.EnabledStores != nil && !opts.EnabledStores[p.Store] {
			continue
		}
		if opts.Category != "" && p.UnifiedCategory != opts.Category {
			continue
		}
		// Bare fruit queries never surface baby food
		if fruitQuery && !queryHasBaby && p.UnifiedCategory == domain.CategoryBaby {
			continue
		}

		avg := groupAverageScore(groups, p)
		if avg == 0 {
			continue
		}

		score := avg * semanticFactor(q, p) * fruitContextFactor(q, fruitQuery, p) * s.learnedBoostFactor(q, p)
		if score >= threshold {
			results = append(results, domain.ScoredProduct{Product: *p, Score: score})
		}
	}

	s.sortResults(results, opts.Sort)
	return results
}

// tokenGroup expands one query token into its OR-group: the token itself
// plus configured variants and synonyms, deduplicated
func tokenGroup(token string) []string {
	group := []string{token}
	group = append(group, wordVariants[token]...)
	group = append(group, synonyms[token]...)

	seen := make(map[string]bool, len(group))
	out := group[:0]
	for _, t := range group {
		t = strings.TrimSpace(strings.ToLower(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// groupAverageScore averages each token group's best member score against the
// product. A group scoring exactly 0 eliminates the product outright: every
// query word must have at least a weak match somewhere.
func groupAverageScore(groups [][]string, p *domain.Product) float64 {
	if len(groups) == 0 {
		return 0
	}
	total := 0.0
	for _, group := range groups {
		best := 0.0
		for _, term := range group {
			if ts := fieldWeightedScore(term, p); ts > best {
				best = ts
			}
			if best >= 0.999 {
				break
			}
		}
		if best == 0 {
			return 0
		}
		total += best
	}
	return total / float64(len(groups))
}

// fieldWeightedScore scores one term against name (0.6), brand (0.3) and
// unified category (0.1)
func fieldWeightedScore(term string, p *domain.Product) float64 {
	total := 0.0
	if p.Name != "" {
		total += hybridScore(term, p.Name) * weightName
	}
	if p.Brand != "" {
		total += hybridScore(term, p.Brand) * weightBrand
	}
	if p.UnifiedCategory != "" {
		total += hybridScore(term, p.UnifiedCategory) * weightCategory
	}
	return total
}

// hybridScore is the per-field fuzzy score: 1.0 on substring containment,
// else Levenshtein similarity with prefix bonuses
func hybridScore(term, field string) float64 {
	term = strings.ToLower(term)
	field = strings.ToLower(field)
	if strings.Contains(field, term) {
		return 1.0
	}
	base := similarity(term, field)
	if strings.HasPrefix(field, term) {
		return capAtOne(base + fieldPrefixBonus)
	}
	for _, w := range strings.Fields(field) {
		if strings.HasPrefix(w, term) {
			return capAtOne(base + wordPrefixBonus)
		}
	}
	return base
}

// similarity converts Levenshtein distance into a 0..1 score
func similarity(a, b string) float64 {
	maxLen := len([]rune(a))
	if lb := len([]rune(b)); lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshteinDistance(a, b))/float64(maxLen)
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	// Two rows instead of the full matrix for space efficiency
	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}

// semanticFactor zeroes the score when the product name contains a blocked
// term for this query, and gives a 1.1 nudge when the product's category text
// literally contains the query
func semanticFactor(q string, p *domain.Product) float64 {
	name := strings.ToLower(p.Name)
	for _, blocked := range semanticBlocklist[q] {
		if strings.Contains(name, blocked) {
			return 0
		}
	}
	cat := strings.ToLower(firstNonEmpty(p.RawCategory, p.UnifiedCategory))
	if strings.Contains(cat, q) {
		return 1.1
	}
	return 1.0
}

// fruitContextFactor biases single-word fruit queries toward fresh produce
// and away from dessert/snack context, clamped to a 0.1 floor
func fruitContextFactor(q string, fruitQuery bool, p *domain.Product) float64 {
	if !fruitQuery {
		return 1.0
	}
	name := strings.ToLower(p.Name)
	boost := 1.0
	if p.UnifiedCategory == domain.CategoryProduce {
		boost += 0.4
	}
	for _, blocker := range fruitContextBlockers {
		if strings.Contains(name, blocker) {
			boost -= 0.4
			break
		}
	}
	if name == q || strings.HasPrefix(name, q+" ") {
		boost += 0.5
	}
	if boost < 0.1 {
		boost = 0.1
	}
	return boost
}

// learnedBoostFactor rescales a 0..1 historical-selection weight into a soft
// 0.85..1.25 multiplier (baseline 0.5 maps to 1.0). Missing data means 1.0.
func (s *SearchService) learnedBoostFactor(q string, p *domain.Product) float64 {
	if s.boosts == nil {
		return 1.0
	}
	byCategory, ok := s.boosts[q]
	if !ok {
		return 1.0
	}
	cat := p.UnifiedCategory
	if cat == "" {
		cat = domain.CategoryOther
	}
	v, ok := byCategory[cat]
	if !ok {
		return 1.0
	}
	return 0.85 + v*0.4
}

// adaptiveThreshold derives the minimum score from the normalized query:
// multi-word queries are permissive, short queries demand near-exact matches
func adaptiveThreshold(q string) float64 {
	if len(strings.Fields(q)) > 2 {
		return 0.5
	}
	switch n := len([]rune(q)); {
	case n <= 3:
		return 0.75
	case n <= 6:
		return 0.65
	default:
		return 0.6
	}
}

// normalizeQuery lowercases, strips punctuation and collapses whitespace
func normalizeQuery(q string) string {
	q = strings.ToLower(q)
	q = queryNormalizeRegex.ReplaceAllString(q, " ")
	return strings.Join(strings.Fields(q), " ")
}

// sortResults orders results per the requested mode. Products without a
// price/PPU sort last in the price-based modes. Name comparisons are
// locale-aware (Dutch).
func (s *SearchService) sortResults(results []domain.ScoredProduct, mode string) {
	coll := collate.New(language.Dutch, collate.IgnoreCase)

	byName := func(a, b *domain.ScoredProduct) int {
		return coll.CompareString(a.Name, b.Name)
	}
	numAsc := func(a, b *float64) bool {
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return *a < *b
	}

	switch mode {
	case SortByPPU:
		sort.SliceStable(results, func(i, j int) bool {
			return numAsc(results[i].PricePerUnit, results[j].PricePerUnit)
		})
	case SortByPrice:
		sort.SliceStable(results, func(i, j int) bool {
			return numAsc(results[i].Price, results[j].Price)
		})
	case SortByAlpha:
		sort.SliceStable(results, func(i, j int) bool {
			return byName(&results[i], &results[j]) < 0
		})
	case SortByPromo:
		sort.SliceStable(results, func(i, j int) bool {
			iPromo := results[i].PromoPrice != nil
			jPromo := results[j].PromoPrice != nil
			if iPromo != jPromo {
				return iPromo
			}
			if results[i].Score != results[j].Score {
				return results[i].Score > results[j].Score
			}
			return byName(&results[i], &results[j]) < 0
		})
	default:
		sort.SliceStable(results, func(i, j int) bool {
			if results[i].Score != results[j].Score {
				return results[i].Score > results[j].Score
			}
			return byName(&results[i], &results[j]) < 0
		})
	}
}

func capAtOne(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}

func min(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
