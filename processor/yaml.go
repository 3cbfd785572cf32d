package processor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ZaguanLabs/doclai"
	"gopkg.in/yaml.v3"
)

// YAMLCodec reads and writes YAML documents through yaml.Node so mapping
// order survives. Only the first document of a stream is read.
type YAMLCodec struct {
	Indent int
}

// NewYAMLCodec returns a codec writing two-space indented YAML.
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{Indent: 2}
}

// ContentType returns "yaml".
func (c *YAMLCodec) ContentType() string { return "yaml" }

// Decode parses data into a value tree. Anchors and aliases are expanded;
// tags other than the core scalar ones decode as strings.
func (c *YAMLCodec) Decode(data []byte) (doclai.Value, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return doclai.Value{}, decodeError(c.ContentType(), err)
	}
	v, err := fromNode(&root, 0)
	if err != nil {
		return doclai.Value{}, decodeError(c.ContentType(), err)
	}
	return v, nil
}

// maxAliasDepth bounds alias expansion.
const maxAliasDepth = 64

func fromNode(n *yaml.Node, depth int) (doclai.Value, error) {
	if depth > maxAliasDepth {
		return doclai.Value{}, fmt.Errorf("line %d: document nested too deeply", n.Line)
	}

	switch n.Kind {
	case 0:
		return doclai.Null(), nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return doclai.Null(), nil
		}
		return fromNode(n.Content[0], depth+1)
	case yaml.AliasNode:
		return fromNode(n.Alias, depth+1)
	case yaml.SequenceNode:
		items := make([]doclai.Value, 0, len(n.Content))
		for _, child := range n.Content {
			v, err := fromNode(child, depth+1)
			if err != nil {
				return doclai.Value{}, err
			}
			items = append(items, v)
		}
		return doclai.Sequence(items...), nil
	case yaml.MappingNode:
		members := make([]doclai.Member, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.Kind != yaml.ScalarNode {
				return doclai.Value{}, fmt.Errorf("line %d: only scalar mapping keys are supported", key.Line)
			}
			v, err := fromNode(n.Content[i+1], depth+1)
			if err != nil {
				return doclai.Value{}, err
			}
			members = append(members, doclai.Member{Key: key.Value, Value: v})
		}
		return doclai.Mapping(members...), nil
	case yaml.ScalarNode:
		return fromScalar(n)
	default:
		return doclai.Value{}, fmt.Errorf("line %d: unsupported node kind %d", n.Line, n.Kind)
	}
}

func fromScalar(n *yaml.Node) (doclai.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return doclai.Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return doclai.Value{}, err
		}
		return doclai.Bool(b), nil
	case "!!int":
		if isJSONNumber(n.Value) {
			return doclai.Number(json.Number(n.Value)), nil
		}
		var i int64
		if err := n.Decode(&i); err != nil {
			return doclai.Value{}, err
		}
		return doclai.Int(i), nil
	case "!!float":
		if isJSONNumber(n.Value) {
			return doclai.Number(json.Number(n.Value)), nil
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return doclai.Value{}, err
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return doclai.String(n.Value), nil
		}
		return doclai.Number(json.Number(strconv.FormatFloat(f, 'g', -1, 64))), nil
	default:
		return doclai.String(n.Value), nil
	}
}

func isJSONNumber(s string) bool {
	if s == "" || s[0] == '+' || s[0] == '.' {
		return false
	}
	var n json.Number
	return json.Unmarshal([]byte(s), &n) == nil
}

// Encode writes v as a single YAML document.
func (c *YAMLCodec) Encode(v doclai.Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if c.Indent > 0 {
		enc.SetIndent(c.Indent)
	}
	if err := enc.Encode(toNode(v)); err != nil {
		return nil, encodeError(c.ContentType(), err)
	}
	if err := enc.Close(); err != nil {
		return nil, encodeError(c.ContentType(), err)
	}
	return buf.Bytes(), nil
}

func toNode(v doclai.Value) *yaml.Node {
	switch v.Kind() {
	case doclai.KindBool:
		b, _ := v.AsBool()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(b)}
	case doclai.KindNumber:
		num, _ := v.AsNumber()
		tag := "!!int"
		if strings.ContainsAny(num.String(), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: num.String()}
	case doclai.KindString:
		s, _ := v.AsString()
		n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
		if strings.Contains(strings.TrimRight(s, "\n"), "\n") {
			n.Style = yaml.LiteralStyle
		}
		return n
	case doclai.KindSequence:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.Items() {
			n.Content = append(n.Content, toNode(item))
		}
		return n
	case doclai.KindMapping:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, m := range v.Members() {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.Key},
				toNode(m.Value))
		}
		return n
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

var _ DocumentCodec = (*YAMLCodec)(nil)
