package gdocai

import (
	"bytes"
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

var reportJSON = protojson.MarshalOptions{Multiline: true, Indent: "  "}

// ToJSON renders a report for the command line as indented JSON. Document
// AI messages keep their proto field names, other values such as the
// frame filter report go through encoding/json. HTML characters in tag
// names and text are written as they are.
func ToJSON(report any) (string, error) {
	if m, ok := report.(proto.Message); ok {
		data, err := reportJSON.Marshal(m)
		if err != nil {
			return "", fmt.Errorf("failed to encode %s: %w", m.ProtoReflect().Descriptor().Name(), err)
		}
		return string(data), nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
