package convert

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mcncl/jsondelta/internal/errors"
	"github.com/mcncl/jsondelta/internal/models"
	"gopkg.in/yaml.v3"
)

func encodeYAML(v models.JSONValue) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(toNode(v)); err != nil {
		return "", errors.NewSerializationError("cannot encode YAML", err)
	}
	if err := enc.Close(); err != nil {
		return "", errors.NewSerializationError("cannot encode YAML", err)
	}
	return buf.String(), nil
}

func toNode(v models.JSONValue) *yaml.Node {
	switch t := v.(type) {
	case nil:
		return scalarNode("!!null", "null")
	case bool:
		return scalarNode("!!bool", strconv.FormatBool(t))
	case json.Number:
		if strings.ContainsAny(string(t), ".eE") {
			return scalarNode("!!float", t.String())
		}
		return scalarNode("!!int", t.String())
	case float64:
		return scalarNode("!!float", strconv.FormatFloat(t, 'g', -1, 64))
	case int:
		return scalarNode("!!int", strconv.Itoa(t))
	case string:
		return scalarNode("!!str", t)
	case *models.Array:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		if t != nil {
			for _, item := range t.Items {
				seq.Content = append(seq.Content, toNode(item))
			}
		}
		return seq
	case *models.Object:
		mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range t.Keys() {
			child, _ := t.Get(key)
			mapping.Content = append(mapping.Content, scalarNode("!!str", key), toNode(child))
		}
		return mapping
	default:
		return scalarNode("!!str", fmt.Sprint(t))
	}
}

func scalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

// Alias expansion may visit aliasBudgetRatio times the nodes a document
// holds, and never fewer than minAliasBudget in total.
const (
	aliasBudgetRatio = 10
	minAliasBudget   = 10000
)

func decodeYAML(content string) (models.JSONValue, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		return nil, errors.NewParsingError("invalid YAML", err)
	}
	if doc.Kind == 0 {
		return nil, errors.NewInputError("nothing to convert", errors.ErrEmptyInput)
	}
	budget := countNodes(&doc) * aliasBudgetRatio
	if budget < minAliasBudget {
		budget = minAliasBudget
	}
	d := &nodeDecoder{budget: budget}
	return d.fromNode(&doc)
}

// countNodes counts the nodes written out in the document, without following aliases
func countNodes(n *yaml.Node) int {
	count := 1
	for _, c := range n.Content {
		count += countNodes(c)
	}
	return count
}

type nodeDecoder struct {
	// nodes left to visit, aliases counted every time they are expanded
	budget int
}

func (d *nodeDecoder) fromNode(n *yaml.Node) (models.JSONValue, error) {
	d.budget--
	if d.budget < 0 {
		return nil, errors.NewParsingError(
			fmt.Sprintf("YAML document at line %d expands too far", n.Line), errors.ErrAliasExpansion)
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return d.fromNode(n.Content[0])
	case yaml.AliasNode:
		return d.fromNode(n.Alias)
	case yaml.SequenceNode:
		arr := models.NewArray()
		for _, c := range n.Content {
			item, err := d.fromNode(c)
			if err != nil {
				return nil, err
			}
			arr.Append(item)
		}
		return arr, nil
	case yaml.MappingNode:
		return d.fromMapping(n)
	case yaml.ScalarNode:
		return fromScalar(n)
	}
	return nil, errors.NewParsingError(fmt.Sprintf("unsupported YAML node at line %d", n.Line), errors.ErrInvalidJSON)
}

// fromMapping decodes a mapping. Keys pulled in through "<<" merge keys never
// replace keys the mapping sets itself, and earlier merge sources win over later ones.
func (d *nodeDecoder) fromMapping(n *yaml.Node) (models.JSONValue, error) {
	explicit := make(map[string]bool)
	keys := make([]string, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		if isMergeKey(n.Content[i]) {
			continue
		}
		key, err := mappingKey(n.Content[i])
		if err != nil {
			return nil, err
		}
		keys[i/2] = key
		explicit[key] = true
	}

	obj := models.NewObject()
	for i := 0; i+1 < len(n.Content); i += 2 {
		if isMergeKey(n.Content[i]) {
			if err := d.merge(obj, n.Content[i+1], explicit); err != nil {
				return nil, err
			}
			continue
		}
		value, err := d.fromNode(n.Content[i+1])
		if err != nil {
			return nil, err
		}
		obj.Set(keys[i/2], value)
	}
	return obj, nil
}

func (d *nodeDecoder) merge(obj *models.Object, source *yaml.Node, explicit map[string]bool) error {
	v, err := d.fromNode(source)
	if err != nil {
		return err
	}
	var sources []models.JSONValue
	if arr, ok := v.(*models.Array); ok {
		sources = arr.Items
	} else {
		sources = []models.JSONValue{v}
	}
	for _, src := range sources {
		m, ok := src.(*models.Object)
		if !ok {
			return errors.NewParsingError(
				fmt.Sprintf("YAML merge at line %d needs a mapping or a list of mappings", source.Line), errors.ErrInvalidJSON)
		}
		for _, key := range m.Keys() {
			if explicit[key] || obj.Has(key) {
				continue
			}
			child, _ := m.Get(key)
			obj.Set(key, child)
		}
	}
	return nil
}

func isMergeKey(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!merge"
}

// mappingKey returns the text of a scalar key, following aliases
func mappingKey(n *yaml.Node) (string, error) {
	k := n
	for k.Kind == yaml.AliasNode && k.Alias != nil {
		k = k.Alias
	}
	if k.Kind != yaml.ScalarNode {
		return "", errors.NewParsingError(
			fmt.Sprintf("YAML mapping key at line %d is not a plain value", n.Line), errors.ErrComplexKey)
	}
	return k.Value, nil
}

func fromScalar(n *yaml.Node) (models.JSONValue, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, errors.NewParsingError("invalid YAML boolean", err)
		}
		return b, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			// too large for int64, keep the digits when they already read as JSON
			if json.Valid([]byte(n.Value)) {
				return json.Number(n.Value), nil
			}
			return nil, errors.NewParsingError("invalid YAML integer", err)
		}
		return json.Number(strconv.FormatInt(i, 10)), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, errors.NewParsingError("invalid YAML float", err)
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, errors.NewParsingError(
				fmt.Sprintf("%s at line %d has no JSON representation", n.Value, n.Line), errors.ErrUnsupportedType)
		}
		return json.Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
	default:
		return n.Value, nil
	}
}
