package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// LooseFloat decodes JSON numbers or numeric strings. Empty strings, nulls
// and unparsable values become 0 instead of an error; the trading forms send
// numerics as free text and the wire contract coerces rather than rejects.
type LooseFloat float64

func (f *LooseFloat) UnmarshalJSON(b []byte) error {
	*f = LooseFloat(looseParse(b))
	return nil
}

// LooseInt is LooseFloat truncated to an integer.
type LooseInt int64

func (i *LooseInt) UnmarshalJSON(b []byte) error {
	*i = LooseInt(looseParse(b))
	return nil
}

func looseParse(b []byte) float64 {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		return 0
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return 0
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			return 0
		}
		return v
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return 0
	}
	return v
}
