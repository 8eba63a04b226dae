package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// TemplateValue is the typed template-data tree carried by an enqueue
// request: a scalar, an object, or an array of further values.
type TemplateValue interface {
	templateValue()
}

type TemplateScalar string

type TemplateObject map[string]TemplateValue

type TemplateArray []TemplateValue

func (TemplateScalar) templateValue() {}
func (TemplateObject) templateValue() {}
func (TemplateArray) templateValue()  {}

// TemplateDataFromJSON decodes an arbitrary JSON document into the typed
// tree. Numbers, booleans and nulls become their string renderings.
func TemplateDataFromJSON(raw json.RawMessage) (TemplateValue, error) {
	if len(raw) == 0 {
		return TemplateObject{}, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return templateValueOf(v), nil
}

func templateValueOf(v any) TemplateValue {
	switch t := v.(type) {
	case nil:
		return TemplateScalar("")
	case string:
		return TemplateScalar(t)
	case bool:
		return TemplateScalar(strconv.FormatBool(t))
	case float64:
		return TemplateScalar(strconv.FormatFloat(t, 'f', -1, 64))
	case map[string]any:
		obj := make(TemplateObject, len(t))
		for k, val := range t {
			obj[k] = templateValueOf(val)
		}
		return obj
	case []any:
		arr := make(TemplateArray, 0, len(t))
		for _, val := range t {
			arr = append(arr, templateValueOf(val))
		}
		return arr
	}
	return TemplateScalar("")
}

// Lookup resolves a dotted path ("student.name", "items.0.label") against
// the tree. Array segments are decimal indexes. The second return is false
// when the path is absent or does not end in a scalar.
func Lookup(v TemplateValue, path string) (TemplateScalar, bool) {
	cur := v
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case TemplateObject:
			next, ok := node[seg]
			if !ok {
				return "", false
			}
			cur = next
		case TemplateArray:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return "", false
			}
			cur = node[idx]
		default:
			return "", false
		}
	}
	if s, ok := cur.(TemplateScalar); ok {
		return s, true
	}
	return "", false
}

// Merge overlays the top-level keys of override onto base. Both sides must
// be objects; anything else returns override unchanged.
func Merge(base, override TemplateValue) TemplateValue {
	bo, bok := base.(TemplateObject)
	oo, ook := override.(TemplateObject)
	if !bok || !ook {
		return override
	}
	out := make(TemplateObject, len(bo)+len(oo))
	for k, v := range bo {
		out[k] = v
	}
	for k, v := range oo {
		out[k] = v
	}
	return out
}
