package api

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
)

// intParam parses an optional integer query parameter. ok is false when
// the parameter is absent.
func intParam(q url.Values, name string) (v int, ok bool, err error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, false, nil
	}
	v, err = strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %s must be an integer", ErrBadRequest, name)
	}
	return v, true, nil
}

// decimalParam parses an optional decimal query parameter.
func decimalParam(q url.Values, name string) (decimal.NullDecimal, error) {
	raw := q.Get(name)
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("%w: %s must be a number", ErrBadRequest, name)
	}
	return decimal.NewNullDecimal(d), nil
}

// pathID parses a positive integer path value.
func pathID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: id must be a positive integer", ErrBadRequest)
	}
	return id, nil
}
