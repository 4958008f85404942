package generator

import "fmt"

// TypeTag identifies the semantic type of a generated column.
type TypeTag int

const (
	TagUnknown TypeTag = iota
	TagString
	TagInt
	TagIntInc
	TagIntRng
	TagDigit
	TagDecimal
	TagDate
	TagTime
	TagDateTime
	TagName
	TagFirstName
	TagLastName
	TagZipCode
	TagCountryCode
	TagStateName
	TagStateAbbr
	TagLat
	TagLon
	TagPhone
	TagPrice
	TagSSN
	TagLoremWord
	TagLoremTitle
	TagLoremSentence
	TagLoremParagraph
	TagUUID
	TagValue
)

var tagNames = [...]string{
	TagUnknown:        "UNKNOWN",
	TagString:         "STRING",
	TagInt:            "INT",
	TagIntInc:         "INT_INC",
	TagIntRng:         "INT_RNG",
	TagDigit:          "DIGIT",
	TagDecimal:        "DECIMAL",
	TagDate:           "DATE",
	TagTime:           "TIME",
	TagDateTime:       "DATE_TIME",
	TagName:           "NAME",
	TagFirstName:      "FIRST_NAME",
	TagLastName:       "LAST_NAME",
	TagZipCode:        "ZIP_CODE",
	TagCountryCode:    "COUNTRY_CODE",
	TagStateName:      "STATE_NAME",
	TagStateAbbr:      "STATE_ABBR",
	TagLat:            "LAT",
	TagLon:            "LON",
	TagPhone:          "PHONE",
	TagPrice:          "PRICE",
	TagSSN:            "SSN",
	TagLoremWord:      "LOREM_WORD",
	TagLoremTitle:     "LOREM_TITLE",
	TagLoremSentence:  "LOREM_SENTENCE",
	TagLoremParagraph: "LOREM_PARAGRAPH",
	TagUUID:           "UUID",
	TagValue:          "VALUE",
}

var tagsByName = func() map[string]TypeTag {
	m := make(map[string]TypeTag, len(tagNames))
	for tag, name := range tagNames {
		if TypeTag(tag) != TagUnknown {
			m[name] = TypeTag(tag)
		}
	}
	return m
}()

// String returns the schema spelling of the tag.
func (t TypeTag) String() string {
	if t < 0 || int(t) >= len(tagNames) {
		return fmt.Sprintf("TypeTag(%d)", int(t))
	}
	return tagNames[t]
}

// LookupTag maps schema text to a tag. Matching is exact and case-sensitive;
// anything unrecognised yields TagUnknown.
func LookupTag(name string) TypeTag {
	if tag, ok := tagsByName[name]; ok {
		return tag
	}
	return TagUnknown
}

// Tags returns every recognised tag in declaration order.
func Tags() []TypeTag {
	tags := make([]TypeTag, 0, len(tagNames)-1)
	for tag := TagString; int(tag) < len(tagNames); tag++ {
		tags = append(tags, tag)
	}
	return tags
}
