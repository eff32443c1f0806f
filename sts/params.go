package sts

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// parameterJSON mirrors the wire shape of spec.md §6's Parameter JSON:
//
//	{"parameter set": {"test name": "...", "parameter set name": "...",
//	 "parameters": [{"name": "...", "data type": "...", "precision": 2,
//	 "units": "...", "value": "..."}]}}
type parameterJSON struct {
	ParameterSet struct {
		TestName string           `json:"test name"`
		SetName  string           `json:"parameter set name"`
		Params   []parameterEntry `json:"parameters"`
	} `json:"parameter set"`
}

type parameterEntry struct {
	Name      string `json:"name"`
	DataType  string `json:"data type"`
	Precision *int   `json:"precision,omitempty"`
	Units     string `json:"units,omitempty"`
	Value     string `json:"value"`
}

// ParseParameterJSON decodes raw Parameter JSON, validates every entry's
// name against infos, and fills in defaults for anything the caller
// omitted (spec.md §6). Unknown parameter names are rejected.
func ParseParameterJSON(raw []byte, testName string, infos []ParameterInfo) (*ParameterSet, error) {
	var doc parameterJSON
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, Wrap(InvalidParameter, err, "parsing parameter JSON")
	}

	byName := make(map[string]ParameterInfo, len(infos))
	for _, info := range infos {
		byName[info.Name] = info
	}

	provided := make(map[string]parameterEntry, len(doc.ParameterSet.Params))
	for _, p := range doc.ParameterSet.Params {
		if _, ok := byName[p.Name]; !ok {
			return nil, NewError(InvalidParameter, "unknown parameter %q for test %q", p.Name, testName)
		}
		provided[p.Name] = p
	}

	set := &ParameterSet{TestName: testName, SetName: doc.ParameterSet.SetName}
	for _, info := range infos {
		if raw, ok := provided[info.Name]; ok {
			val, err := parseValue(info.Type, raw.Value)
			if err != nil {
				return nil, Wrap(InvalidParameter, err, "parameter %q", info.Name)
			}
			if err := checkRange(info, val); err != nil {
				return nil, err
			}
			precision := info.Precision
			if raw.Precision != nil {
				precision = *raw.Precision
			}
			units := info.Units
			if raw.Units != "" {
				units = raw.Units
			}
			set.Entries = append(set.Entries, ParameterEntry{
				Name: info.Name, Type: info.Type, Precision: precision, Units: units, Value: val,
			})
			continue
		}
		if err := checkRange(info, info.Default); err != nil {
			return nil, err
		}
		set.Entries = append(set.Entries, ParameterEntry{
			Name: info.Name, Type: info.Type, Precision: info.Precision, Units: info.Units, Value: info.Default,
		})
	}
	return set, nil
}

// DefaultParameterSet builds a ParameterSet entirely from defaults,
// backing cmd/paramset.go's "print the default config" subcommand.
func DefaultParameterSet(testName, setName string, infos []ParameterInfo) *ParameterSet {
	set := &ParameterSet{TestName: testName, SetName: setName}
	for _, info := range infos {
		set.Entries = append(set.Entries, ParameterEntry{
			Name: info.Name, Type: info.Type, Precision: info.Precision, Units: info.Units, Value: info.Default,
		})
	}
	return set
}

// MarshalJSONPretty renders the ParameterSet to the spec.md §6 Parameter
// JSON wire shape, indented for human/CLI consumption
// (cmd/paramset.go's "print the default config" subcommand).
func (p *ParameterSet) MarshalJSONPretty() ([]byte, error) {
	return json.MarshalIndent(toParameterJSON(*p), "", "  ")
}

// toParameterJSON renders a resolved ParameterSet back to the spec.md §6
// wire shape, the inverse of ParseParameterJSON's decode path.
func toParameterJSON(set ParameterSet) parameterJSON {
	var doc parameterJSON
	doc.ParameterSet.TestName = set.TestName
	doc.ParameterSet.SetName = set.SetName
	for _, e := range set.Entries {
		doc.ParameterSet.Params = append(doc.ParameterSet.Params, parameterEntry{
			Name:      e.Name,
			DataType:  string(e.Type),
			Precision: precisionPtr(e.Precision),
			Units:     e.Units,
			Value:     formatValue(e.Value),
		})
	}
	return doc
}

func precisionPtr(p int) *int {
	if p == 0 {
		return nil
	}
	return &p
}

func formatValue(v Value) string {
	switch v.Type {
	case TypeUint8, TypeUint16, TypeUint32, TypeUint64:
		return strconv.FormatUint(v.U, 10)
	case TypeInt8, TypeInt16, TypeInt32, TypeInt64:
		return strconv.FormatInt(v.I, 10)
	case TypeFloat32, TypeFloat64:
		return strconv.FormatFloat(v.F, 'g', -1, 64)
	case TypeBool:
		return strconv.FormatBool(v.B)
	default:
		return v.S
	}
}

func parseValue(t DataType, text string) (Value, error) {
	switch t {
	case TypeUint8, TypeUint16, TypeUint32, TypeUint64:
		u, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return Value{}, err
		}
		return Value{Type: t, U: u}, nil
	case TypeInt8, TypeInt16, TypeInt32, TypeInt64:
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Value{}, err
		}
		return Value{Type: t, I: i}, nil
	case TypeFloat32, TypeFloat64:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, err
		}
		return Value{Type: t, F: f}, nil
	case TypeBool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return Value{}, err
		}
		return Value{Type: t, B: b}, nil
	case TypeString:
		return Value{Type: t, S: text}, nil
	default:
		return Value{}, fmt.Errorf("unsupported data type %q", t)
	}
}

func checkRange(info ParameterInfo, v Value) error {
	cmp := func(a, b Value) int {
		switch a.Type {
		case TypeUint8, TypeUint16, TypeUint32, TypeUint64:
			switch {
			case a.U < b.U:
				return -1
			case a.U > b.U:
				return 1
			default:
				return 0
			}
		case TypeFloat32, TypeFloat64:
			switch {
			case a.F < b.F:
				return -1
			case a.F > b.F:
				return 1
			default:
				return 0
			}
		default:
			switch {
			case a.I < b.I:
				return -1
			case a.I > b.I:
				return 1
			default:
				return 0
			}
		}
	}
	if info.Min != nil && cmp(v, *info.Min) < 0 {
		return NewError(InvalidParameter, "parameter %q below minimum", info.Name)
	}
	if info.Max != nil && cmp(v, *info.Max) > 0 {
		return NewError(InvalidParameter, "parameter %q above maximum", info.Name)
	}
	return nil
}
