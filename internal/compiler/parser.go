package compiler

import (
	"fmt"
	"reflect"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Parser decodes machine files. YAML is a superset of JSON, so both formats
// share one decoding path: bytes -> generic map -> Description.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes data into a Description. Rules may be written either as
// strings ("q0,0 -> q1,1,R") or as maps with from/read/to/write/move keys.
// Unknown keys are rejected so that typos do not silently drop rules.
func (p *Parser) Parse(data []byte) (domain.Description, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return domain.Description{}, fmt.Errorf("failed to parse machine: %w", err)
	}
	if raw == nil {
		return domain.Description{}, fmt.Errorf("failed to parse machine: empty document")
	}
	return Decode(raw)
}

// Decode converts a generic map (as produced by YAML or JSON decoders) into a Description.
func Decode(raw map[string]any) (domain.Description, error) {
	var desc domain.Description
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			ruleFromString,
			directionFromString,
		),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &desc,
	})
	if err != nil {
		return domain.Description{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return domain.Description{}, fmt.Errorf("failed to decode machine: %w", err)
	}
	return desc, nil
}

// Encode renders d as YAML with rules in their compact string form.
func Encode(d domain.Description) ([]byte, error) {
	doc := document{
		Name:     d.Name,
		States:   d.States,
		Alphabet: d.Alphabet,
		Blank:    d.Blank,
		Initial:  d.Initial,
		Finals:   d.Finals,
	}
	for _, r := range d.Rules {
		doc.Rules = append(doc.Rules, FormatRule(r))
	}
	return yaml.Marshal(doc)
}

// document is the on-disk layout written by Encode.
type document struct {
	Name     string          `yaml:"name,omitempty"`
	States   []domain.State  `yaml:"states,flow"`
	Alphabet []domain.Symbol `yaml:"alphabet,flow"`
	Blank    domain.Symbol   `yaml:"blank"`
	Initial  domain.State    `yaml:"initial"`
	Finals   []domain.State  `yaml:"finals,flow"`
	Rules    []string        `yaml:"rules"`
}

var (
	ruleType      = reflect.TypeOf(domain.Rule{})
	directionType = reflect.TypeOf(domain.Direction(""))
)

func ruleFromString(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != ruleType || from.Kind() != reflect.String {
		return data, nil
	}
	return ParseRule(reflect.ValueOf(data).String())
}

func directionFromString(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != directionType || from.Kind() != reflect.String {
		return data, nil
	}
	return domain.ParseDirection(reflect.ValueOf(data).String())
}
