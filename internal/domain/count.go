package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Count is a non-negative quantity such as bedrooms or parking spots. The admin
// form posts these as strings, so it decodes from a JSON number, a numeric
// string, an empty string or null.
type Count int

func (c *Count) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = 0
		return nil
	}

	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*c = 0
			return nil
		}
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid count %q", raw)
	}
	if n < 0 {
		return fmt.Errorf("count must not be negative: %d", n)
	}
	*c = Count(n)
	return nil
}
