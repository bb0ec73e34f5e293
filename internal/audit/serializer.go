package audit

import "encoding/json"

// SerializationFailedPayload replaces a payload that could not be encoded.
const SerializationFailedPayload = `{"_payload":"serialization_failed"}`

// JSONSerializer encodes audit context fields as a JSON object.
type JSONSerializer struct {
	marshal func(v any) ([]byte, error)
}

// NewJSONSerializer creates a serializer backed by encoding/json.
func NewJSONSerializer() *JSONSerializer {
	return &JSONSerializer{marshal: json.Marshal}
}

// NewJSONSerializerWith creates a serializer with a custom marshal function.
func NewJSONSerializerWith(marshal func(v any) ([]byte, error)) *JSONSerializer {
	return &JSONSerializer{marshal: marshal}
}

// Serialize encodes fields, never failing: any encoding error yields
// SerializationFailedPayload.
func (s *JSONSerializer) Serialize(fields map[string]any) string {
	b, err := s.marshal(fields)
	if err != nil {
		return SerializationFailedPayload
	}
	return string(b)
}
