package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// StringOrNumber takes a JSON string or number. The PG sends codes and amounts
// as either, depending on the endpoint. null decodes to "".
type StringOrNumber string

func (s *StringOrNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*s = ""
	case b[0] == '"':
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = StringOrNumber(strings.TrimSpace(str))
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("want string or number, got %s", truncate(string(b), 40))
		}
		*s = StringOrNumber(n.String())
	}
	return nil
}
