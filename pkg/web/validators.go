package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

// ParamValidator is a function type that validates a parameter.
type ParamValidator func(valueToTest int64) bool

func newComparisonValidator(valueInClosure int64, compareFn func(argValue, closedValue int64) bool) ParamValidator {
	return func(argValue int64) bool {
		return compareFn(argValue, valueInClosure)
	}
}

// Gte accepts values greater than or equal to the bound.
func Gte(bound int64) ParamValidator {
	return newComparisonValidator(bound, func(argValue, closedValue int64) bool {
		return argValue >= closedValue
	})
}

// Lte accepts values less than or equal to the bound.
func Lte(bound int64) ParamValidator {
	return newComparisonValidator(bound, func(argValue, closedValue int64) bool {
		return argValue <= closedValue
	})
}

// Between accepts values in [lo, hi].
func Between(lo, hi int64) ParamValidator {
	gte, lte := Gte(lo), Lte(hi)
	return func(v int64) bool { return gte(v) && lte(v) }
}

// ParseQueryInt32 reads an optional int32 query parameter. An absent or empty
// parameter yields def; a malformed or rejected value writes 400 and returns false.
func ParseQueryInt32(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string, def int32, pValidator ParamValidator) (int32, bool) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return def, true
	}
	intValue, err := strconv.ParseInt(value, 10, 32)
	if err != nil || !pValidator(intValue) {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid %s parameter: %s", key, value))
		return 0, false
	}
	return int32(intValue), true
}
