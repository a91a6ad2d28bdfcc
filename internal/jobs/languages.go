package jobs

import "strings"

// LanguageCode is a lowercase ISO 639-1 code from the supported set.
type LanguageCode string

var languageTable = map[LanguageCode]string{
	"ar": "Arabic",
	"bn": "Bengali",
	"bg": "Bulgarian",
	"cs": "Czech",
	"da": "Danish",
	"de": "German",
	"el": "Greek",
	"en": "English",
	"es": "Spanish",
	"et": "Estonian",
	"fa": "Persian",
	"fi": "Finnish",
	"fr": "French",
	"he": "Hebrew",
	"hi": "Hindi",
	"hr": "Croatian",
	"hu": "Hungarian",
	"id": "Indonesian",
	"it": "Italian",
	"ja": "Japanese",
	"ko": "Korean",
	"lt": "Lithuanian",
	"lv": "Latvian",
	"ms": "Malay",
	"nl": "Dutch",
	"no": "Norwegian",
	"pl": "Polish",
	"pt": "Portuguese",
	"ro": "Romanian",
	"ru": "Russian",
	"sk": "Slovak",
	"sl": "Slovenian",
	"sr": "Serbian",
	"sv": "Swedish",
	"sw": "Swahili",
	"ta": "Tamil",
	"th": "Thai",
	"tl": "Tagalog",
	"tr": "Turkish",
	"uk": "Ukrainian",
	"ur": "Urdu",
	"vi": "Vietnamese",
	"zh": "Chinese",
}

// ValidLanguage reports whether code is in the supported set.
func ValidLanguage(code LanguageCode) bool {
	_, ok := languageTable[code]
	return ok
}

// LanguageName returns the display name for a supported language code.
// Unknown codes come back uppercased so they remain visible in the UI.
func LanguageName(code LanguageCode) string {
	if name, ok := languageTable[code]; ok {
		return name
	}
	return strings.ToUpper(string(code))
}

// languageByName resolves a language code from its display name,
// case-insensitively. Returns false when the name is unknown.
func languageByName(name string) (LanguageCode, bool) {
	name = strings.TrimSpace(name)
	for code, display := range languageTable {
		if strings.EqualFold(display, name) {
			return code, true
		}
	}
	return "", false
}
