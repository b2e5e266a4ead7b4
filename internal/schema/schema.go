// Package schema validates config and coverage documents against the
// embedded JSON schemas before they are decoded.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const (
	configSchemaURL   = "https://covgroup.oxhq.dev/schemas/config.schema.json"
	coverageSchemaURL = "https://covgroup.oxhq.dev/schemas/coverage.schema.json"
)

// ErrSchemaValidation is wrapped by every ValidationError.
var ErrSchemaValidation = errors.New("schema validation failed")

// Violation is one failed keyword at one instance location
type Violation struct {
	Location string // JSON pointer into the document, "" for the root
	Message  string
}

func (v Violation) String() string {
	loc := v.Location
	if loc == "" {
		loc = "/"
	}
	return loc + ": " + v.Message
}

// ValidationError lists every violation found in a document
type ValidationError struct {
	Document   string
	Violations []Violation
}

func (e *ValidationError) Error() string {
	lines := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		lines[i] = "  " + v.String()
	}
	return fmt.Sprintf("%s: invalid %s:\n%s", ErrSchemaValidation, e.Document, strings.Join(lines, "\n"))
}

func (e *ValidationError) Unwrap() error {
	return ErrSchemaValidation
}

var (
	compileOnce sync.Once
	compiled    map[string]*jsonschema.Schema
	compileErr  error
)

func schemas() (map[string]*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020

		sources := map[string]string{
			configSchemaURL:   "schemas/config.schema.json",
			coverageSchemaURL: "schemas/coverage.schema.json",
		}
		for url, file := range sources {
			raw, err := schemaFS.ReadFile(file)
			if err != nil {
				compileErr = err
				return
			}
			if err := compiler.AddResource(url, bytes.NewReader(raw)); err != nil {
				compileErr = fmt.Errorf("adding schema %s: %w", file, err)
				return
			}
		}

		compiled = make(map[string]*jsonschema.Schema, len(sources))
		for url := range sources {
			s, err := compiler.Compile(url)
			if err != nil {
				compileErr = fmt.Errorf("compiling schema %s: %w", url, err)
				return
			}
			compiled[url] = s
		}
	})
	return compiled, compileErr
}

// ValidateConfig checks a grouping config document.
func ValidateConfig(raw []byte) error {
	return validate(configSchemaURL, "config", raw)
}

// ValidateCoverage checks a coverage summary document.
func ValidateCoverage(raw []byte) error {
	return validate(coverageSchemaURL, "coverage", raw)
}

func validate(url, document string, raw []byte) error {
	all, err := schemas()
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return &ValidationError{
			Document:   document,
			Violations: []Violation{{Message: "malformed JSON: " + err.Error()}},
		}
	}

	if err := all[url].Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		return &ValidationError{Document: document, Violations: leaves(verr)}
	}
	return nil
}

// leaves flattens the cause tree into its most specific failures.
func leaves(err *jsonschema.ValidationError) []Violation {
	var out []Violation
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			out = append(out, Violation{Location: e.InstanceLocation, Message: e.Message})
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(err)

	sort.SliceStable(out, func(i, j int) bool { return out[i].Location < out[j].Location })
	return out
}
