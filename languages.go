package doclai

import "strings"

// LanguageNames maps locale codes to the names used in translator prompts.
var LanguageNames = map[string]string{
	"en_US": "English (United States)",
	"en_GB": "English (United Kingdom)",
	"de_DE": "German (Germany)",
	"es_ES": "Spanish (Spain)",
	"es_MX": "Spanish (Mexico)",
	"fr_FR": "French (France)",
	"fr_CA": "French (Canada)",
	"it_IT": "Italian (Italy)",
	"ja_JP": "Japanese (Japan)",
	"ko_KR": "Korean (South Korea)",
	"nl_NL": "Dutch (Netherlands)",
	"nb_NO": "Norwegian Bokmål (Norway)",
	"pl_PL": "Polish (Poland)",
	"pt_BR": "Portuguese (Brazil)",
	"pt_PT": "Portuguese (Portugal)",
	"ru_RU": "Russian (Russia)",
	"sv_SE": "Swedish (Sweden)",
	"tr_TR": "Turkish (Turkey)",
	"uk_UA": "Ukrainian (Ukraine)",
	"zh_CN": "Chinese (Simplified)",
	"zh_TW": "Chinese (Traditional)",
	"ar_SA": "Arabic (Saudi Arabia)",
	"he_IL": "Hebrew (Israel)",
	"hi_IN": "Hindi (India)",
}

// ShortCodeToLocale expands bare language codes to a default locale.
var ShortCodeToLocale = map[string]string{
	"en": "en_US",
	"de": "de_DE",
	"es": "es_ES",
	"fr": "fr_FR",
	"it": "it_IT",
	"ja": "ja_JP",
	"ko": "ko_KR",
	"nl": "nl_NL",
	"pl": "pl_PL",
	"pt": "pt_BR",
	"ru": "ru_RU",
	"zh": "zh_CN",
	"ar": "ar_SA",
	"he": "he_IL",
	"hi": "hi_IN",
}

// GetLanguageName returns the human-readable name for a language code,
// falling back to the code itself.
func GetLanguageName(langCode string) string {
	code := NormalizeLocale(langCode)
	if name, ok := LanguageNames[code]; ok {
		return name
	}
	if locale, ok := ShortCodeToLocale[strings.ToLower(code)]; ok {
		return LanguageNames[locale]
	}
	return langCode
}

// NormalizeLocale converts a language code to underscore form ("es-ES" → "es_ES").
func NormalizeLocale(langCode string) string {
	return strings.ReplaceAll(strings.TrimSpace(langCode), "-", "_")
}

// BaseLanguage extracts the lowercase base code ("en" from "en_US").
func BaseLanguage(langCode string) string {
	code := NormalizeLocale(langCode)
	if i := strings.IndexByte(code, '_'); i >= 0 {
		code = code[:i]
	}
	return strings.ToLower(code)
}

// SameLanguage reports whether two codes name the same locale. A bare base
// code ("en") matches any region of that language; two different regions
// ("pt_BR", "pt_PT") do not match.
func SameLanguage(a, b string) bool {
	na := strings.ToLower(NormalizeLocale(a))
	nb := strings.ToLower(NormalizeLocale(b))
	if na == nb {
		return true
	}
	if BaseLanguage(na) != BaseLanguage(nb) {
		return false
	}
	return !strings.Contains(na, "_") || !strings.Contains(nb, "_")
}

// LocaleClarifications gives the translator extra guidance for locales whose
// language name alone is ambiguous.
var LocaleClarifications = map[string]string{
	"es_ES": "Use Castilian Spanish as spoken in Spain (vosotros, Spain-specific vocabulary).",
	"es_MX": "Use Mexican Spanish (ustedes, Latin American vocabulary).",
	"pt_BR": "Use Brazilian Portuguese (você, Brazilian spelling).",
	"pt_PT": "Use European Portuguese as spoken in Portugal.",
	"fr_CA": "Use Canadian French vocabulary and conventions.",
	"nb_NO": "Use Norwegian Bokmål, not Nynorsk.",
	"zh_CN": "Use Simplified Chinese characters.",
	"zh_TW": "Use Traditional Chinese characters as used in Taiwan.",
	"en_GB": "Use British spelling and vocabulary.",
}

// GetLocaleClarification returns the extra guidance for a locale, or "".
func GetLocaleClarification(langCode string) string {
	return LocaleClarifications[NormalizeLocale(langCode)]
}
