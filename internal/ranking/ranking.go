// Package ranking scores catalog brands against a user preference. The
// engine is pure: no I/O, no clock, deterministic output for equal input.
package ranking

import (
	"math"
	"sort"
	"strings"

	"seoulfit/discoveryworker/internal/catalog"
)

// Scoring weights. Category carries the most signal, then style; budget is
// a coarse yes/no gate.
const (
	categoryWeight = 40
	styleWeight    = 35
	budgetWeight   = 25

	// neutralScore is used when the preference constrains nothing.
	neutralScore = 50

	// idolBoost reorders brands with a verified idol sighting; it never
	// shows up in the displayed score.
	idolBoost = 5
)

// Preference is what the user asked for. Only categories, styles and budget
// participate in scoring; body type, fits and colors are carried through
// for downstream filtering.
type Preference struct {
	Categories []string `json:"categories,omitempty"`
	Styles     []string `json:"styles,omitempty"`
	Budget     string   `json:"budget,omitempty"`
	BodyType   string   `json:"body_type,omitempty"`
	Fits       []string `json:"fits,omitempty"`
	Colors     []string `json:"colors,omitempty"`
}

// categoryAliases maps a preference category id onto the catalog category
// values that satisfy it. Ids absent from the map match themselves.
var categoryAliases = map[string][]string{
	"outer":  {"outer"},
	"top":    {"top"},
	"bottom": {"bottom"},
	"dress":  {"dress"},
	"set":    {"set"},
}

// styleKeywords maps a preference style id onto the Korean style-tag
// keywords that signal it. A brand hits a style when any keyword matches
// any of its tags by substring in either direction.
var styleKeywords = map[string][]string{
	"kkuankku":     {"미니멀", "캐주얼", "내추럴", "베이직"},
	"kkukkukku":    {"포멀", "화려", "레이어드", "트렌디"},
	"minimal":      {"미니멀", "베이직", "모던", "크린핏", "놈코어"},
	"street":       {"스트릿", "오버핏", "그래픽", "젠더리스", "Y2K"},
	"y2k":          {"Y2K", "크롭", "페미닌", "컬러풀", "스트릿"},
	"oldmoney":     {"클래식", "테일러드", "럭셔리", "하이엔드", "오피스룩"},
	"highteen":     {"청순", "프레피", "캐주얼", "페미닌", "하이틴"},
	"normcore":     {"베이직", "미니멀", "데일리", "놈코어"},
	"gorpcore":     {"아웃도어", "기능성", "스포티"},
	"preppy":       {"프레피", "체크", "클래식", "테일러드"},
	"amekaji":      {"아메카지", "데님", "빈티지", "레트로"},
	"feminin":      {"페미닌", "플로럴", "크로셰", "로맨틱"},
	"chungchung":   {"데님", "캐주얼", "Y2K"},
	"layered":      {"레이어드", "믹스매치", "트렌디"},
	"genderless":   {"젠더리스", "유니섹스", "오버핏"},
	"cottagecore":  {"플로럴", "내추럴", "로맨틱"},
	"darkacademia": {"트위드", "다크", "클래식"},
	"dopamine":     {"컬러풀", "비비드", "트렌디"},
}

// budgetTier is a price band in KRW; a zero bound is open.
type budgetTier struct {
	min int
	max int
}

var budgetTiers = map[string]budgetTier{
	"under5": {max: 50000},
	"5to15":  {min: 50000, max: 150000},
	"15to30": {min: 150000, max: 300000},
	"over30": {min: 300000},
}

// openPriceMax stands in for a brand with no declared upper price bound.
const openPriceMax = 9999999

// RankedBrand is a catalog brand with its computed score attached.
type RankedBrand struct {
	catalog.Brand
	MatchScore int `json:"match_score"`
}

// MatchScore computes the 0-100 match between a preference and a brand.
// Each supplied dimension contributes its weight; the result is normalized
// over the weights that actually applied. A preference that constrains
// nothing scores a flat 50 for every brand.
func MatchScore(pref Preference, brand catalog.Brand) int {
	earned, applicable := 0, 0

	if n := len(pref.Categories); n > 0 {
		applicable += categoryWeight
		hits := 0
		for _, id := range pref.Categories {
			if brandHasCategory(brand, id) {
				hits++
			}
		}
		earned += roundDiv(hits*categoryWeight, n)
	}

	if n := len(pref.Styles); n > 0 {
		applicable += styleWeight
		hits := 0
		for _, id := range pref.Styles {
			if brandHasStyle(brand, id) {
				hits++
			}
		}
		earned += roundDiv(hits*styleWeight, n)
	}

	if pref.Budget != "" {
		applicable += budgetWeight
		if tier, ok := budgetTiers[pref.Budget]; ok && budgetOverlaps(tier, brand.PriceRange) {
			earned += budgetWeight
		}
	}

	if applicable == 0 {
		return neutralScore
	}
	return roundDiv(earned*100, applicable)
}

// Rank scores every brand and returns them best-first. Brands with a
// confirmed idol reference sort as if they scored 5 higher; the displayed
// score is unchanged. The sort is stable, so catalog order breaks ties.
func Rank(pref Preference, brands []catalog.Brand) []RankedBrand {
	ranked := make([]RankedBrand, 0, len(brands))
	for _, b := range brands {
		ranked = append(ranked, RankedBrand{Brand: b, MatchScore: MatchScore(pref, b)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return sortKey(ranked[i]) > sortKey(ranked[j])
	})
	return ranked
}

func sortKey(r RankedBrand) int {
	key := r.MatchScore
	if r.HasConfirmedIdol() {
		key += idolBoost
	}
	return key
}

func brandHasCategory(brand catalog.Brand, id string) bool {
	aliases, ok := categoryAliases[id]
	if !ok {
		aliases = []string{id}
	}
	for _, alias := range aliases {
		for _, cat := range brand.Categories {
			if cat == alias {
				return true
			}
		}
	}
	return false
}

func brandHasStyle(brand catalog.Brand, id string) bool {
	for _, keyword := range styleKeywords[id] {
		for _, tag := range brand.StyleTags {
			if strings.Contains(tag, keyword) || strings.Contains(keyword, tag) {
				return true
			}
		}
	}
	return false
}

// budgetOverlaps reports whether the brand's price band intersects the
// tier. A brand with no declared range is treated as covering everything.
func budgetOverlaps(tier budgetTier, r *catalog.PriceRange) bool {
	brandMin, brandMax := 0, openPriceMax
	if r != nil {
		brandMin = r.Min
		if r.Max > 0 {
			brandMax = r.Max
		}
	}
	if tier.min > 0 && brandMax < tier.min {
		return false
	}
	if tier.max > 0 && brandMin > tier.max {
		return false
	}
	return true
}

// roundDiv returns num/den rounded to the nearest integer.
func roundDiv(num, den int) int {
	return int(math.Round(float64(num) / float64(den)))
}
