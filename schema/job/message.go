package job

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/jsonschema"
	"github.com/xeipuuv/gojsonschema"
)

// Message asks a worker to parse one uploaded archive.
type Message struct {
	ArchiveID string `json:"archive_id" jsonschema:"required,minLength=1"`
	Bucket    string `json:"bucket" jsonschema:"required,minLength=1"`
	Key       string `json:"key" jsonschema:"required,minLength=1"`
	FileName  string `json:"file_name"`
	FileSize  int    `json:"file_size" jsonschema:"minimum=0"`
}

func MessageSchemaLoader() *gojsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		ExpandedStruct:             true,
		RequiredFromJSONSchemaTags: true,
	}
	s := reflector.Reflect(&Message{})
	data, _ := s.MarshalJSON()
	schemaLoader := gojsonschema.NewStringLoader(string(data))
	schema, _ := gojsonschema.NewSchema(schemaLoader)
	return schema
}

var messageSchema = MessageSchemaLoader()

// Validate checks a raw message body against the Message schema.
func Validate(data []byte) error {
	docLoader := gojsonschema.NewBytesLoader(data)
	result, err := messageSchema.Validate(docLoader)
	if err != nil {
		return err
	}
	if !result.Valid() {
		reasons := make([]string, 0)
		for _, desc := range result.Errors() {
			reasons = append(reasons, desc.String())
		}
		return errors.New(strings.Join(reasons, "\n"))
	}
	return nil
}

// Parse validates and decodes a message body.
func Parse(data []byte) (*Message, error) {
	if err := Validate(data); err != nil {
		return nil, fmt.Errorf("invalid job message: %w", err)
	}
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid job message: %w", err)
	}
	return &m, nil
}
