package domain

import (
	"fmt"
	"strings"
)

// Country is a validated two-letter country code. Call sites branch on the
// capability predicates rather than comparing raw codes.
type Country struct {
	code string
}

const (
	countryCodeKorea = "KR"
	countryCodeUS    = "US"
)

var supportedCountries = map[string]struct{}{
	countryCodeKorea: {},
	countryCodeUS:    {},
}

func NewCountry(code string) (Country, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return Country{}, fmt.Errorf("%w: blank code", ErrUnsupportedCountry)
	}

	if _, ok := supportedCountries[normalized]; !ok {
		return Country{}, fmt.Errorf("%w: %q", ErrUnsupportedCountry, code)
	}

	return Country{code: normalized}, nil
}

func (c Country) Code() string {
	return c.code
}

func (c Country) IsKorea() bool {
	return c.code == countryCodeKorea
}

func (c Country) IsUS() bool {
	return c.code == countryCodeUS
}

func (c Country) String() string {
	return c.code
}
