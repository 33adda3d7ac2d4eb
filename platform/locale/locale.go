// Package locale picks a display locale from Accept-Language and the date layout for it.
// This is part of the platform layer and contains no business logic.
package locale

import "golang.org/x/text/language"

// Default is used when the client sends no usable Accept-Language header.
var Default = language.AmericanEnglish

var supported = []language.Tag{
	language.AmericanEnglish, // first entry is the matcher fallback
	language.BritishEnglish,
	language.MustParse("en-IN"),
	language.German,
	language.Dutch,
	language.French,
	language.Spanish,
	language.Hindi,
}

// dateLayouts mirrors the short numeric date each locale shows in browsers.
var dateLayouts = []string{
	"1/2/2006",
	"02/01/2006",
	"2/1/2006",
	"2.1.2006",
	"2-1-2006",
	"02/01/2006",
	"2/1/2006",
	"2/1/2006",
}

var matcher = language.NewMatcher(supported)

// Negotiate returns the best supported tag for an Accept-Language header value.
func Negotiate(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	return supported[idx]
}

// DateLayout returns the time layout used for tag.
func DateLayout(tag language.Tag) string {
	for i, s := range supported {
		if s == tag {
			return dateLayouts[i]
		}
	}
	return dateLayouts[0]
}
