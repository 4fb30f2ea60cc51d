// Package classifier decides whether an upstream order is collected by the
// customer (pickup) rather than shipped.
//
// Matching is case-insensitive substring matching, not whole-word matching.
// A tag such as "no-pickup" or a shipping title such as "Locally sourced
// ground" is classified as pickup. This is a known limitation of the
// heuristic and is kept as is.
package classifier

import (
	"strings"

	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/internal/entity"
)

const (
	RuleNone         = ""
	RuleTag          = "tag"
	RuleShippingLine = "shipping_line"
)

// Rules is the single table the classifier matches against.
type Rules struct {
	TagKeywords      []string
	ShippingKeywords []string
	// PickupLocationName is matched against shipping line code and title
	// like a keyword.
	PickupLocationName string
}

func DefaultRules() Rules {
	return Rules{
		TagKeywords:      []string{"pickup"},
		ShippingKeywords: []string{"pickup", "pick up", "local"},
	}
}

type Decision struct {
	IsPickup bool
	Rule     string
	Keyword  string
}

type Classifier struct {
	tagKeywords      []string
	shippingKeywords []string
}

func New(rules Rules) *Classifier {
	shipping := normalize(rules.ShippingKeywords)
	if name := normalizeOne(rules.PickupLocationName); name != "" {
		shipping = append(shipping, name)
	}

	return &Classifier{
		tagKeywords:      normalize(rules.TagKeywords),
		shippingKeywords: shipping,
	}
}

// Classify never fails. Missing tags or shipping lines count as empty.
func (c *Classifier) Classify(order *entity.Order) Decision {
	if order == nil {
		return Decision{}
	}

	for _, tag := range order.Tags {
		if kw, ok := containsAny(tag, c.tagKeywords); ok {
			return Decision{IsPickup: true, Rule: RuleTag, Keyword: kw}
		}
	}

	for _, line := range order.ShippingLines {
		if kw, ok := containsAny(line.Code, c.shippingKeywords); ok {
			return Decision{IsPickup: true, Rule: RuleShippingLine, Keyword: kw}
		}
		if kw, ok := containsAny(line.Title, c.shippingKeywords); ok {
			return Decision{IsPickup: true, Rule: RuleShippingLine, Keyword: kw}
		}
	}

	return Decision{Rule: RuleNone}
}

func containsAny(text string, keywords []string) (string, bool) {
	if text == "" {
		return "", false
	}
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return kw, true
		}
	}
	return "", false
}

// normalize lower-cases and trims keywords and drops empty ones; an empty
// keyword would match every string.
func normalize(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = normalizeOne(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

func normalizeOne(kw string) string {
	return strings.ToLower(strings.TrimSpace(kw))
}
