// Package policy implements the patch-policy resolver: reading one patch
// descriptor per plugin and answering, per (plugin, layer), whether the
// layer is included and which conflict strategy applies (spec.md
// section 4.7).
package policy

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const descriptorSchemaText = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "version": {"const": "0"},
    "meta_type": {"const": "Patch"},
    "height_map": {"$ref": "#/$defs/layer"},
    "vertex_colors": {"$ref": "#/$defs/layer"},
    "texture_indices": {"$ref": "#/$defs/layer"},
    "world_map_data": {"$ref": "#/$defs/layer"}
  },
  "required": ["version", "meta_type"],
  "additionalProperties": false,
  "$defs": {
    "layer": {
      "type": "object",
      "properties": {
        "included": {"type": "boolean"},
        "conflict_strategy": {"enum": ["Auto", "Overwrite", "Ignore", "Keep"]}
      },
      "additionalProperties": false
    }
  }
}`

var descriptorSchema = compileDescriptorSchema()

func compileDescriptorSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("patch-descriptor.json", bytes.NewReader([]byte(descriptorSchemaText))); err != nil {
		panic(fmt.Sprintf("policy: invalid embedded schema: %v", err))
	}
	schema, err := compiler.Compile("patch-descriptor.json")
	if err != nil {
		panic(fmt.Sprintf("policy: compiling embedded schema: %v", err))
	}
	return schema
}

// ErrInvalidDescriptor wraps a patch descriptor validation failure.
type ErrInvalidDescriptor struct {
	Plugin string
	Err    error
}

func (e *ErrInvalidDescriptor) Error() string {
	return fmt.Sprintf("invalid patch descriptor for %s: %v", e.Plugin, e.Err)
}

func (e *ErrInvalidDescriptor) Unwrap() error { return e.Err }

// ValidateDescriptor parses and schema-validates raw JSON bytes for
// plugin. Unknown keys at the document or per-layer level are rejected.
func ValidateDescriptor(plugin string, raw []byte) (*rawDescriptor, error) {
	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, &ErrInvalidDescriptor{Plugin: plugin, Err: err}
	}
	if err := descriptorSchema.Validate(generic); err != nil {
		return nil, &ErrInvalidDescriptor{Plugin: plugin, Err: err}
	}

	var rd rawDescriptor
	if err := json.Unmarshal(raw, &rd); err != nil {
		return nil, &ErrInvalidDescriptor{Plugin: plugin, Err: err}
	}
	return &rd, nil
}

type rawLayerPolicy struct {
	Included         *bool   `json:"included"`
	ConflictStrategy *string `json:"conflict_strategy"`
}

type rawDescriptor struct {
	Version        string          `json:"version"`
	MetaType       string          `json:"meta_type"`
	HeightMap      *rawLayerPolicy `json:"height_map"`
	VertexColors   *rawLayerPolicy `json:"vertex_colors"`
	TextureIndices *rawLayerPolicy `json:"texture_indices"`
	WorldMapData   *rawLayerPolicy `json:"world_map_data"`
}
