package order

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// OtherCategory collects every type no configured category claimed.
const OtherCategory = "Other"

var trailingNumber = regexp.MustCompile(`\d+$`)

// Rule matches contract types inside a category.
type Rule struct {
	literal      string
	pattern      *regexp.Regexp
	byLastNumber bool
}

// Literal matches one type by case-insensitive equality.
func Literal(name string) Rule {
	return Rule{literal: name}
}

// Pattern matches every type the expression fully matches, ignoring case.
// With byLastNumber the matches are ordered by their trailing integer.
func Pattern(expr string, byLastNumber bool) Rule {
	return Rule{
		pattern:      regexp.MustCompile(fmt.Sprintf(`(?i)^(?:%s)$`, expr)),
		byLastNumber: byLastNumber,
	}
}

// Category is a display group and its ordered rules.
type Category struct {
	Name  string
	Rules []Rule
}

// Group is a category with the types it consumed, in display order.
type Group struct {
	Name  string
	Types []string
}

// Sort assigns every type to exactly one group. Categories and rules are
// walked in declaration order and each type is consumed at most once.
// Leftovers go to a trailing Other group. Empty groups are omitted.
func Sort(types []string, categories []Category) []Group {
	used := make(map[string]bool, len(types))
	var groups []Group

	for _, cat := range categories {
		var matched []string

		for _, rule := range cat.Rules {
			if rule.pattern == nil {
				for _, t := range types {
					if !used[t] && strings.EqualFold(t, rule.literal) {
						matched = append(matched, t)
						used[t] = true
						break
					}
				}
				continue
			}

			var hits []string
			for _, t := range types {
				if !used[t] && rule.pattern.MatchString(t) {
					hits = append(hits, t)
				}
			}
			if rule.byLastNumber {
				sort.SliceStable(hits, func(i, j int) bool {
					return lastNumber(hits[i]) < lastNumber(hits[j])
				})
			}
			for _, t := range hits {
				matched = append(matched, t)
				used[t] = true
			}
		}

		if len(matched) > 0 {
			groups = append(groups, Group{Name: cat.Name, Types: matched})
		}
	}

	var other []string
	for _, t := range types {
		if !used[t] {
			other = append(other, t)
			used[t] = true
		}
	}
	if len(other) > 0 {
		groups = append(groups, Group{Name: OtherCategory, Types: other})
	}

	return groups
}

// CategoryOf returns the group name a single type would be placed in.
func CategoryOf(contractType string, categories []Category) string {
	groups := Sort([]string{contractType}, categories)
	if len(groups) == 0 {
		return OtherCategory
	}
	return groups[0].Name
}

// lastNumber returns the trailing integer of s; types without one sort last.
func lastNumber(s string) int {
	m := trailingNumber.FindString(s)
	if m == "" {
		return int(^uint(0) >> 1)
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return n
}
