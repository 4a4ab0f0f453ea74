package emissions

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownCategory is returned when decoding input for a category that does not exist.
var ErrUnknownCategory = errors.New("unknown emission category")

// DecodeInput decodes a JSON document into the category's input. An empty document is
// the zero input. Fields holding a value of the wrong JSON type are left at their zero
// value; only malformed JSON is an error.
func DecodeInput(c Category, data []byte) (Input, error) {
	in, ok := NewInput(c)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, c)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return in, nil
	}
	if err := json.Unmarshal(data, in); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil, err
		}
	}
	return in, nil
}
