package generator

// builtin.go wires every recognised type tag to a concrete generator.
// Fake values come from gofakeit; UUIDs from google/uuid; decimal rounding
// from shopspring/decimal so DECIMAL and PRICE cells have a fixed scale.

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/JonMunkholm/gencsv/internal/table"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Default returns a registry holding every built-in generator, backed by a
// randomly seeded faker.
func Default() *Registry {
	r := NewRegistry()
	RegisterBuiltins(r, gofakeit.New(0))
	return r
}

// RegisterBuiltins registers the built-in generators on r using f as the
// randomness source.
func RegisterBuiltins(r *Registry, f *gofakeit.Faker) {
	text := func(fn func() string) Factory {
		g := Scalar(table.KindString, func() any { return fn() })
		return func(Params) Generator { return g }
	}
	float := func(places int32, fn func() float64) Factory {
		g := Scalar(table.KindFloat, func() any { return round(fn(), places) })
		return func(Params) Generator { return g }
	}

	r.Register(TagString, text(func() string { return f.LetterN(uint(f.IntRange(1, 32))) }))
	r.Register(TagInt, func(Params) Generator {
		return Scalar(table.KindInt, func() any { return int64(f.IntRange(0, math.MaxInt32)) })
	})
	r.Register(TagIntInc, func(p Params) Generator {
		return Sequence{Start: 0, End: p.Rows}
	})
	r.Register(TagIntRng, intRange)
	r.Register(TagDigit, text(f.Digit))
	r.Register(TagDecimal, float(4, func() float64 { return f.Float64Range(0, 100000) }))
	r.Register(TagDate, text(func() string { return f.Date().Format(time.DateOnly) }))
	r.Register(TagTime, text(func() string { return f.Date().Format(time.TimeOnly) }))
	r.Register(TagDateTime, text(func() string { return f.Date().Format(time.RFC3339) }))
	r.Register(TagName, text(f.Name))
	r.Register(TagFirstName, text(f.FirstName))
	r.Register(TagLastName, text(f.LastName))
	r.Register(TagZipCode, text(f.Zip))
	r.Register(TagCountryCode, text(f.CountryAbr))
	r.Register(TagStateName, text(f.State))
	r.Register(TagStateAbbr, text(f.StateAbr))
	r.Register(TagLat, float(6, f.Latitude))
	r.Register(TagLon, float(6, f.Longitude))
	r.Register(TagPhone, text(f.Phone))
	r.Register(TagPrice, float(2, func() float64 { return f.Price(0, 9999) }))
	r.Register(TagSSN, text(f.SSN))
	r.Register(TagLoremWord, text(f.LoremIpsumWord))
	r.Register(TagLoremTitle, text(func() string { return loremTitle(f) }))
	r.Register(TagLoremSentence, text(func() string { return f.LoremIpsumSentence(f.IntRange(1, 14)) }))
	r.Register(TagLoremParagraph, text(func() string {
		return f.LoremIpsumParagraph(1, f.IntRange(1, 8), f.IntRange(4, 12), " ")
	}))
	r.Register(TagUUID, text(uuid.NewString))
	r.Register(TagValue, text(func() string { return "value" }))
}

// intRange builds the INT_RNG sequence. A missing or malformed modifier is
// not fatal: the column falls back to (0-rows).
func intRange(p Params) Generator {
	rng, err := ParseRange(p.Modifier)
	if !p.HasModifier {
		err = fmt.Errorf("%w: modifier missing", ErrRangeParse)
	}
	if err != nil {
		slog.Warn("bad INT_RNG modifier, using default range",
			"modifier", p.Modifier,
			"default", fmt.Sprintf("(0-%d)", p.Rows),
			"error", err,
		)
		rng = RangeModifier{Lower: 0, Upper: p.Rows}
	}
	return Sequence{Start: rng.Lower, End: rng.Upper}
}

func loremTitle(f *gofakeit.Faker) string {
	words := make([]string, f.IntRange(1, 3))
	for i := range words {
		w := f.LoremIpsumWord()
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
