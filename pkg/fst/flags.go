package fst

import (
	"regexp"
	"strings"
)

// Flag diacritics are control symbols of the form @OP.FEATURE@ or
// @OP.FEATURE.VALUE@ that gate transitions on feature agreement. They consume
// no input and never appear in meaningful output.

var diacriticPattern = regexp.MustCompile(`^@[PNCRDU]\.[^.@]+(\.[^.@]+)?@$`)

// IsDiacritic reports whether sym is a flag diacritic symbol.
func IsDiacritic(sym string) bool {
	return diacriticPattern.MatchString(sym)
}

// flagValue is the setting of one feature: a value string plus polarity.
// A negative setting means "known to not be value".
type flagValue struct {
	value    string
	negative bool
}

// flagEnv maps feature names to their current settings. Environments are
// copied on write so that search branches never observe each other's state.
type flagEnv map[string]flagValue

func (e flagEnv) with(feature string, v flagValue) flagEnv {
	next := make(flagEnv, len(e)+1)
	for k, val := range e {
		next[k] = val
	}
	next[feature] = v
	return next
}

func (e flagEnv) without(feature string) flagEnv {
	if _, ok := e[feature]; !ok {
		return e
	}
	next := make(flagEnv, len(e))
	for k, val := range e {
		if k != feature {
			next[k] = val
		}
	}
	return next
}

// applyFlag evaluates the diacritic sym against the environment. It returns
// the (possibly updated) environment and whether the transition is permitted.
func applyFlag(e flagEnv, sym string) (flagEnv, bool) {
	body := strings.TrimSuffix(strings.TrimPrefix(sym, "@"), "@")
	parts := strings.SplitN(body, ".", 3)
	op := parts[0]
	feature := parts[1]
	value := ""
	if len(parts) == 3 {
		value = parts[2]
	}

	current, set := e[feature]
	switch op {
	case "P": // positive set
		return e.with(feature, flagValue{value: value}), true
	case "N": // negative set
		return e.with(feature, flagValue{value: value, negative: true}), true
	case "C": // clear
		return e.without(feature), true
	case "R": // require
		if value == "" {
			return e, set
		}
		return e, set && !current.negative && current.value == value
	case "D": // disallow
		if value == "" {
			return e, !set
		}
		return e, !(set && !current.negative && current.value == value)
	case "U": // unify
		if !set {
			return e.with(feature, flagValue{value: value}), true
		}
		if current.negative {
			if current.value == value {
				return e, false
			}
			return e.with(feature, flagValue{value: value}), true
		}
		return e, current.value == value
	}
	return e, false
}
