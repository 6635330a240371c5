package conf

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Decode unmarshals the node's value into target, a pointer to a struct or
// basic value. Struct fields are matched by the "conf" tag, falling back to
// the field name; string values decode into time.Duration and
// encoding.TextUnmarshaler fields.
//
// Decode consumes the node's immediate keys, so typed access and unused-key
// reporting compose. It fails with ErrMissing if the node is absent.
func (n *Node) Decode(target any) error {
	n.markUsed()

	raw, ok := n.effectiveRaw()
	if !ok {
		return fmt.Errorf("%s: %w", displayPath(n.name), ErrMissing)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "conf",
		Result:  target,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.TextUnmarshallerHookFunc(),
		),
	})
	if err != nil {
		return fmt.Errorf("building decoder: %w", err)
	}

	err = decoder.Decode(raw)
	if err != nil {
		return &Error{Path: n.name, Err: err}
	}

	for _, key := range n.rawKeys() {
		n.used[key] = struct{}{}
	}

	return nil
}
