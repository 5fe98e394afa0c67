package realm

import (
	"encoding/json"
	"fmt"
)

// Flag is the tri-state form of the realm fields Keycloak's write format
// wants as the string sentinels "true"/"false" even though they are
// logically boolean. This is a wire-compatibility quirk of the upstream API,
// kept on purpose: marshalling a Flag produces exactly the representation
// the server accepts back.
type Flag string

const (
	Enabled     Flag = "true"
	Disabled    Flag = "false"
	Unspecified Flag = ""
)

// Bool reports whether the flag is set to Enabled.
func (f Flag) Bool() bool {
	return f == Enabled
}

// UnmarshalJSON accepts the two shapes the upstream API emits for these
// fields: a JSON bool or a string. Anything else is a decode error.
func (f *Flag) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	switch val := v.(type) {
	case nil:
		*f = Unspecified
	case bool:
		if val {
			*f = Enabled
		} else {
			*f = Disabled
		}
	case string:
		*f = Flag(val)
	default:
		return fmt.Errorf("flag: cannot decode %T", v)
	}
	return nil
}

// orDisabled is the decode default: fields the server omitted read back as
// Disabled, matching the write format's sentinel.
func (f Flag) orDisabled() Flag {
	if f == Unspecified {
		return Disabled
	}
	return f
}
