package types

import "github.com/ghettovoice/sipwire/internal/util"

// Values is a multi-map of URI or header parameters.
// Keys are stored lowercased, so lookups are case-insensitive.
type Values map[string][]string

func valKey(key string) string { return util.LCase(key) }

// Get returns all values of the key.
func (vals Values) Get(key string) []string { return vals[valKey(key)] }

// Last returns the last value of the key.
// The second result is false when the key has no values.
func (vals Values) Last(key string) (string, bool) {
	if vs := vals[valKey(key)]; len(vs) > 0 {
		return vs[len(vs)-1], true
	}
	return "", false
}

// Has reports whether the key is present, possibly without values.
func (vals Values) Has(key string) bool {
	_, ok := vals[valKey(key)]
	return ok
}

// Set replaces the values of the key with a single value.
func (vals Values) Set(key, value string) Values {
	vals[valKey(key)] = []string{value}
	return vals
}

// Append adds value to the values of the key.
func (vals Values) Append(key, value string) Values {
	k := valKey(key)
	vals[k] = append(vals[k], value)
	return vals
}

func (vals Values) Del(key string) Values {
	delete(vals, valKey(key))
	return vals
}

// Clone returns a deep copy. Cloning an empty map gives nil.
func (vals Values) Clone() Values {
	if len(vals) == 0 {
		return nil
	}
	vals2 := make(Values, len(vals))
	for k, vs := range vals {
		vals2[k] = append([]string(nil), vs...)
	}
	return vals2
}
