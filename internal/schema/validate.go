// Package schema validates logsift input files against their embedded JSON schemas.
package schema

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	schemafs "logsift.dev/pkg/logsift/schema"
)

var (
	metadataSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
)

// compileSchemas compiles all embedded schemas once.
func compileSchemas() error {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()

		metadataData, err := schemafs.FS.ReadFile("metadata.schema.json")
		if err != nil {
			compileErr = fmt.Errorf("read metadata schema: %w", err)
			return
		}

		metadataDoc, err := jsonschema.UnmarshalJSON(bytes.NewReader(metadataData))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal metadata schema: %w", err)
			return
		}

		if err := compiler.AddResource("metadata.schema.json", metadataDoc); err != nil {
			compileErr = fmt.Errorf("add metadata schema resource: %w", err)
			return
		}

		metadataSchema, err = compiler.Compile("metadata.schema.json")
		if err != nil {
			compileErr = fmt.Errorf("compile metadata schema: %w", err)
			return
		}
	})

	return compileErr
}

// ValidateMetadata validates YAML metadata against the metadata schema.
func ValidateMetadata(data []byte) error {
	if err := compileSchemas(); err != nil {
		return err
	}

	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}

	if err := metadataSchema.Validate(v); err != nil {
		return fmt.Errorf("metadata validation failed: %w", err)
	}

	return nil
}
