package autoprefixer

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultBrowsers is the support target used when a stage names none.
var DefaultBrowsers = []string{"last 1 version", "> 1%", "ff >= 20", "ie >= 9", "opera >= 12", "Android >= 2.2"}

// aliases maps query names to the engine keys used by the prefix table.
var aliases = map[string]string{
	"ff":       "firefox",
	"firefox":  "firefox",
	"ie":       "ie",
	"explorer": "ie",
	"opera":    "opera",
	"android":  "android",
	"chrome":   "chrome",
	"safari":   "safari",
	"ios":      "ios",
	"ios_saf":  "ios",
	"edge":     "edge",
}

// Targets holds the oldest version to support per engine. Queries that only
// name current releases ("last 1 version", "> 1%") add no old versions.
type Targets map[string]float64

// ParseBrowsers turns a browserslist-style query list into Targets.
// Supported forms are "<name> >= <version>", "<name> > <version>" and
// "<name> <version>".
func ParseBrowsers(queries []string) (Targets, error) {
	t := make(Targets)
	for _, q := range queries {
		q = strings.TrimSpace(q)
		lower := strings.ToLower(q)
		if strings.HasPrefix(lower, "last ") || strings.HasPrefix(lower, ">") || lower == "defaults" {
			continue
		}
		fields := strings.Fields(lower)
		if len(fields) == 3 && (fields[1] == ">=" || fields[1] == ">") {
			fields = []string{fields[0], fields[2]}
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("unsupported browser query %q", q)
		}
		engine, ok := aliases[fields[0]]
		if !ok {
			return nil, fmt.Errorf("unknown browser %q in query %q", fields[0], q)
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid version in query %q: %w", q, err)
		}
		if cur, ok := t[engine]; !ok || v < cur {
			t[engine] = v
		}
	}
	return t, nil
}

// needs reports whether any target engine is older than the version that
// dropped the prefix.
func (t Targets) needs(unprefixedSince map[string]float64) bool {
	for engine, since := range unprefixedSince {
		if v, ok := t[engine]; ok && v < since {
			return true
		}
	}
	return false
}

// prefixRule lists, per vendor prefix, the first engine versions supporting
// the unprefixed property.
type prefixRule map[string]map[string]float64

var rules = map[string]prefixRule{
	"animation":                  {"-webkit-": {"android": 4.4, "safari": 9, "chrome": 43, "ios": 9}, "-o-": {"opera": 12.1}},
	"appearance":                 {"-webkit-": {"android": 999, "chrome": 84, "safari": 15.4}, "-moz-": {"firefox": 80}},
	"backface-visibility":        {"-webkit-": {"android": 999, "chrome": 36, "safari": 15.4}},
	"background-clip":            {"-webkit-": {"android": 3}, "-moz-": {"firefox": 4}},
	"background-size":            {"-webkit-": {"android": 3}, "-moz-": {"firefox": 4}, "-o-": {"opera": 10.5}},
	"border-radius":              {"-webkit-": {"android": 2.2, "safari": 5}, "-moz-": {"firefox": 4}},
	"box-shadow":                 {"-webkit-": {"android": 4, "safari": 5.1}, "-moz-": {"firefox": 4}},
	"box-sizing":                 {"-webkit-": {"android": 4, "safari": 5.1}, "-moz-": {"firefox": 29}},
	"column-count":               {"-webkit-": {"android": 4.4, "chrome": 50}, "-moz-": {"firefox": 52}},
	"flex":                       {"-webkit-": {"android": 4.4, "safari": 9}, "-ms-": {"ie": 11}},
	"font-feature-settings":      {"-webkit-": {"android": 4.4}, "-moz-": {"firefox": 34}},
	"hyphens":                    {"-webkit-": {"android": 999, "safari": 17}, "-moz-": {"firefox": 43}, "-ms-": {"ie": 999}},
	"tab-size":                   {"-moz-": {"firefox": 91}, "-o-": {"opera": 15}},
	"transform":                  {"-webkit-": {"android": 4.4, "safari": 9, "chrome": 36}, "-moz-": {"firefox": 16}, "-ms-": {"ie": 10}, "-o-": {"opera": 12.1}},
	"transform-origin":           {"-webkit-": {"android": 4.4, "safari": 9, "chrome": 36}, "-moz-": {"firefox": 16}, "-ms-": {"ie": 10}, "-o-": {"opera": 12.1}},
	"transition":                 {"-webkit-": {"android": 4.4, "safari": 6.1}, "-moz-": {"firefox": 16}, "-o-": {"opera": 12.1}},
	"transition-duration":        {"-webkit-": {"android": 4.4, "safari": 6.1}, "-moz-": {"firefox": 16}, "-o-": {"opera": 12.1}},
	"transition-property":        {"-webkit-": {"android": 4.4, "safari": 6.1}, "-moz-": {"firefox": 16}, "-o-": {"opera": 12.1}},
	"transition-timing-function": {"-webkit-": {"android": 4.4, "safari": 6.1}, "-moz-": {"firefox": 16}, "-o-": {"opera": 12.1}},
	"user-select":                {"-webkit-": {"android": 999, "safari": 999, "chrome": 54}, "-moz-": {"firefox": 69}, "-ms-": {"ie": 999}},
}

// vendorOrder fixes the order prefixed declarations are emitted in.
var vendorOrder = []string{"-webkit-", "-moz-", "-ms-", "-o-"}

// Prefixes returns the vendor prefixes property needs for t, in emission
// order.
func (t Targets) Prefixes(property string) []string {
	rule, ok := rules[strings.ToLower(property)]
	if !ok {
		return nil
	}
	var out []string
	for _, v := range vendorOrder {
		if since, ok := rule[v]; ok && t.needs(since) {
			out = append(out, v)
		}
	}
	return out
}
