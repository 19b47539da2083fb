package ruleset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// decodeDocument parses data into a document node. JSON documents go
// through encoding/json so every JSON escape is accepted; everything else
// is YAML. Mapping keys keep document order either way.
func decodeDocument(data []byte, source string) (*yaml.Node, error) {
	if isJSON(source, data) {
		return decodeJSON(data)
	}
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	return &root, nil
}

// isJSON picks the decoder from the file extension, falling back to
// content sniffing when the extension says nothing.
func isJSON(source string, data []byte) bool {
	switch strings.ToLower(path.Ext(source)) {
	case ".json":
		return true
	case ".yaml", ".yml":
		return false
	}
	return json.Valid(data)
}

func decodeJSON(data []byte) (*yaml.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return &yaml.Node{Kind: yaml.DocumentNode}, nil
	}
	if err != nil {
		return nil, err
	}
	value, err := jsonValue(dec, tok)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return nil, err
	}
	return &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{value}}, nil
}

// nextToken reads a token inside an open object or array.
func nextToken(dec *json.Decoder) (json.Token, error) {
	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, io.ErrUnexpectedEOF
	}
	return tok, err
}

func jsonValue(dec *json.Decoder, tok json.Token) (*yaml.Node, error) {
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return jsonObject(dec)
		case '[':
			return jsonArray(dec)
		}
		return nil, fmt.Errorf("unexpected delimiter %q", v)
	case string:
		return scalar("!!str", v), nil
	case json.Number:
		if strings.ContainsAny(v.String(), ".eE") {
			return scalar("!!float", v.String()), nil
		}
		return scalar("!!int", v.String()), nil
	case bool:
		return scalar("!!bool", strconv.FormatBool(v)), nil
	case nil:
		return scalar("!!null", "null"), nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func jsonObject(dec *json.Decoder) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for dec.More() {
		kt, err := nextToken(dec)
		if err != nil {
			return nil, err
		}
		key, ok := kt.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", kt)
		}
		vt, err := nextToken(dec)
		if err != nil {
			return nil, err
		}
		value, err := jsonValue(dec, vt)
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content, scalar("!!str", key), value)
	}
	// closing brace
	if _, err := nextToken(dec); err != nil {
		return nil, err
	}
	return n, nil
}

func jsonArray(dec *json.Decoder) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for dec.More() {
		tok, err := nextToken(dec)
		if err != nil {
			return nil, err
		}
		value, err := jsonValue(dec, tok)
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content, value)
	}
	if _, err := nextToken(dec); err != nil {
		return nil, err
	}
	return n, nil
}

func scalar(tag, value string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
	if tag == "!!str" {
		n.Style = yaml.DoubleQuotedStyle
	}
	return n
}
