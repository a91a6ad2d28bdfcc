package jobs

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// The record store hands back an untyped field bag per record. Every
// normalizer in this file is total: malformed input degrades to the
// documented fallback and never panics.

const maxFreeTextLength = 1000

var (
	languageParenRe = regexp.MustCompile(`\(([a-zA-Z]{2})\)$`)
	currencyParenRe = regexp.MustCompile(`^([a-zA-Z]{2,5})\s*\(.*\)$`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
)

var validCareerLevels = func() map[CareerLevel]bool {
	m := make(map[CareerLevel]bool, len(CareerLevelList))
	for _, l := range CareerLevelList {
		m[l] = true
	}
	return m
}()

// NormalizeCareerLevels coerces the raw career_level field into a
// non-empty level list. Display values lose their whitespace
// ("Entry Level" -> "EntryLevel"); anything unrecognized becomes
// NotSpecified, and missing input yields [NotSpecified].
func NormalizeCareerLevels(v any) []CareerLevel {
	if isFalsy(v) {
		return []CareerLevel{LevelNotSpecified}
	}

	toLevel := func(raw string) CareerLevel {
		l := CareerLevel(whitespaceRe.ReplaceAllString(raw, ""))
		if validCareerLevels[l] {
			return l
		}
		return LevelNotSpecified
	}

	if items, ok := asSlice(v); ok {
		levels := make([]CareerLevel, 0, len(items))
		for _, item := range items {
			levels = append(levels, toLevel(asText(item)))
		}
		if len(levels) == 0 {
			return []CareerLevel{LevelNotSpecified}
		}
		return levels
	}

	return []CareerLevel{toLevel(asText(v))}
}

// NormalizeWorkplaceType passes through only the three literal workplace
// values; everything else maps to "Not specified".
func NormalizeWorkplaceType(v any) WorkplaceType {
	if s, ok := v.(string); ok {
		switch WorkplaceType(s) {
		case WorkplaceOnSite, WorkplaceHybrid, WorkplaceRemote:
			return WorkplaceType(s)
		}
	}
	return WorkplaceNotSpecified
}

// NormalizeRemoteRegion passes through only the eight allowed region
// literals; everything else maps to the empty region.
func NormalizeRemoteRegion(v any) RemoteRegion {
	if s, ok := v.(string); ok {
		for _, r := range RemoteRegions {
			if RemoteRegion(s) == r {
				return r
			}
		}
	}
	return ""
}

// NormalizeLanguages extracts supported 2-letter language codes from a
// raw list. Each element is tried as a trailing "(xx)" parenthetical,
// then as a bare code, then as a full language name; elements that match
// nothing are dropped.
func NormalizeLanguages(v any) []LanguageCode {
	items, ok := asSlice(v)
	if !ok {
		return nil
	}

	var codes []LanguageCode
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}

		if m := languageParenRe.FindStringSubmatch(s); m != nil {
			code := LanguageCode(strings.ToLower(m[1]))
			if ValidLanguage(code) {
				codes = append(codes, code)
				continue
			}
		}

		if len(s) == 2 {
			code := LanguageCode(strings.ToLower(s))
			if ValidLanguage(code) {
				codes = append(codes, code)
				continue
			}
		}

		if code, ok := languageByName(s); ok {
			codes = append(codes, code)
		}
	}
	return codes
}

// NormalizeCurrency resolves the raw currency field to a supported code.
// It tries a leading "XXX (Full Name)" pattern, then the whole string as
// a code, then the currency display name, defaulting to USD.
func NormalizeCurrency(v any) Currency {
	s, ok := v.(string)
	if !ok || s == "" {
		return DefaultCurrency
	}

	if m := currencyParenRe.FindStringSubmatch(s); m != nil {
		code := Currency(strings.ToUpper(m[1]))
		if ValidCurrency(code) {
			return code
		}
	}

	if code := Currency(strings.ToUpper(s)); ValidCurrency(code) {
		return code
	}

	if code, ok := currencyByName(s); ok {
		return code
	}

	return DefaultCurrency
}

// NormalizeVisaSponsorship maps exact case-insensitive "yes"/"no" to the
// enum and everything else to "Not specified".
func NormalizeVisaSponsorship(v any) VisaSponsorship {
	if s, ok := v.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "yes":
			return VisaYes
		case "no":
			return VisaNo
		}
	}
	return VisaNotSpecified
}

// NormalizeBenefits trims the benefits text and truncates it to 1000
// characters. Missing or blank input yields the empty string.
func NormalizeBenefits(v any) string {
	return normalizeBoundedText(v)
}

// NormalizeApplicationRequirements behaves exactly like
// NormalizeBenefits for the application_requirements field.
func NormalizeApplicationRequirements(v any) string {
	return normalizeBoundedText(v)
}

func normalizeBoundedText(v any) string {
	if isFalsy(v) {
		return ""
	}
	text := strings.TrimSpace(asText(v))
	if text == "" {
		return ""
	}
	runes := []rune(text)
	if len(runes) > maxFreeTextLength {
		// hard cut, no word-boundary handling
		return strings.TrimSpace(string(runes[:maxFreeTextLength]))
	}
	return text
}

var multiBlankRe = regexp.MustCompile(`\n{3,}`)

// NormalizeMarkdown cleans up markdown bodies coming from the record
// store: unified line endings, collapsed blank-line runs, trimmed edges.
func NormalizeMarkdown(v any) string {
	text := asText(v)
	if text == "" {
		return ""
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = multiBlankRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

func normalizeJobType(v any) JobType {
	if s, ok := v.(string); ok {
		switch JobType(s) {
		case TypeFullTime, TypePartTime, TypeContract, TypeFreelance:
			return JobType(s)
		}
		return JobType(s)
	}
	return ""
}

func normalizeSalaryUnit(v any) SalaryUnit {
	if s, ok := v.(string); ok {
		switch SalaryUnit(strings.ToLower(strings.TrimSpace(s))) {
		case UnitHour, UnitDay, UnitWeek, UnitMonth, UnitYear, UnitProject:
			return SalaryUnit(strings.ToLower(strings.TrimSpace(s)))
		}
	}
	return UnitYear
}

// asText renders any scalar field value as a string.
func asText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// asSlice unwraps the JSON array shapes the store client produces.
func asSlice(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}

// asFloat coerces numeric field values, returning nil for anything that
// does not parse as a number or parses to zero.
func asFloat(v any) *float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if f == 0 {
		return nil
	}
	return &f
}

// asBool mirrors loose truthiness: false, zero, nil, and the empty
// string are false, everything else is true.
func asBool(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	default:
		return true
	}
}

// isFalsy mirrors the source system's falsy check for field presence.
func isFalsy(v any) bool {
	return !asBool(v)
}
