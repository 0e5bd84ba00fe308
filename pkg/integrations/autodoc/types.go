package autodoc

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Brand is one entry of the catalog brand directory.
// The directory has used both "brand" and "name" for the display name.
type Brand struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

func (b *Brand) UnmarshalJSON(data []byte) error {
	var raw struct {
		Brand string `json:"brand"`
		Name  string `json:"name"`
		Code  string `json:"code"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.Name = raw.Brand
	if b.Name == "" {
		b.Name = raw.Name
	}
	b.Code = raw.Code
	return nil
}

// brandList accepts either a bare array or an {"items": [...]} envelope.
type brandList []Brand

func (l *brandList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var env struct {
			Items []Brand `json:"items"`
		}
		if err := json.Unmarshal(data, &env); err != nil {
			return err
		}
		*l = env.Items
		return nil
	}
	var items []Brand
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

// Option is one selectable value of an attribute field.
// Key is the continuation token that selects it.
type Option struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// AttributeField is one narrowing dimension offered by the wizard.
// Determined fields carry no choice.
type AttributeField struct {
	Name       string   `json:"name"`
	Determined bool     `json:"determined"`
	Options    []Option `json:"options"`
}

// WizardState is a snapshot of the configuration wizard.
// Token is the continuation token of this state, if the server returned one.
type WizardState struct {
	Items []AttributeField `json:"items"`
	Token string           `json:"ssd,omitempty"`
}

// Open returns the fields that still need a choice.
func (s *WizardState) Open() []AttributeField {
	var open []AttributeField
	for _, f := range s.Items {
		if !f.Determined {
			open = append(open, f)
		}
	}
	return open
}

// Attribute is a key/value pair describing a vehicle.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Modification is a concrete vehicle variant selectable after the wizard.
type Modification struct {
	CarID      string      `json:"carId"`
	Token      string      `json:"ssd"`
	Attributes []Attribute `json:"attributes"`
}

// UnmarshalJSON accepts carId as either a number or a string.
func (m *Modification) UnmarshalJSON(data []byte) error {
	var raw struct {
		CarID      FlexString  `json:"carId"`
		Token      string      `json:"ssd"`
		Attributes []Attribute `json:"attributes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.CarID = string(raw.CarID)
	m.Token = raw.Token
	m.Attributes = raw.Attributes
	return nil
}

// Attr returns the value of key, or "".
func (m *Modification) Attr(key string) string {
	for _, a := range m.Attributes {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

// Modifications is the terminal wizard result.
type Modifications struct {
	Common   []Attribute    `json:"commonAttributes"`
	Specific []Modification `json:"specificAttributes"`
}

// CatalogCode returns the brand catalog code carried in the common
// attributes of a VIN lookup, or "".
func (m *Modifications) CatalogCode() string {
	for _, a := range m.Common {
		switch strings.ToLower(a.Key) {
		case "catalog", "catalogcode":
			return a.Value
		}
	}
	return ""
}

// CategoryNode is one node in the parts category tree.
type CategoryNode struct {
	ID            string         `json:"quickGroupId"`
	Name          string         `json:"name"`
	Children      []CategoryNode `json:"children"`
	CanBeSearched bool           `json:"canBeSearched"`
}

func (n *CategoryNode) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID            FlexString     `json:"quickGroupId"`
		Name          string         `json:"name"`
		Children      []CategoryNode `json:"children"`
		CanBeSearched bool           `json:"canBeSearched"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	n.ID = string(raw.ID)
	n.Name = raw.Name
	n.Children = raw.Children
	n.CanBeSearched = raw.CanBeSearched
	return nil
}

type categoryTree struct {
	Data []CategoryNode `json:"data"`
}

// SparePart is one entry of a quick group's parts list.
// CodeOnImage is the callout number on the exploded-view diagram.
type SparePart struct {
	CodeOnImage  string `json:"codeOnImage"`
	PartNumber   string `json:"partNumber"`
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer"`
	Unit         string `json:"unit,omitempty"`
}

func (p *SparePart) UnmarshalJSON(data []byte) error {
	var raw struct {
		CodeOnImage  FlexString `json:"codeOnImage"`
		PartNumber   FlexString `json:"partNumber"`
		Name         string     `json:"name"`
		Manufacturer string     `json:"manufacturer"`
		Unit         string     `json:"unit"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = SparePart{
		CodeOnImage:  strings.TrimSpace(string(raw.CodeOnImage)),
		PartNumber:   string(raw.PartNumber),
		Name:         raw.Name,
		Manufacturer: raw.Manufacturer,
		Unit:         raw.Unit,
	}
	return nil
}

// groupParts flattens the units response. The endpoint returns either
// {"items": [...]} or a bare array, and each element is either a part or a
// unit holding "parts".
type groupParts struct {
	Items []SparePart
}

func (g *groupParts) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	var elems []json.RawMessage
	if len(data) > 0 && data[0] == '{' {
		var env struct {
			Items []json.RawMessage `json:"items"`
		}
		if err := json.Unmarshal(data, &env); err != nil {
			return err
		}
		elems = env.Items
	} else if err := json.Unmarshal(data, &elems); err != nil {
		return err
	}

	for _, raw := range elems {
		var unit struct {
			Name  string      `json:"name"`
			Parts []SparePart `json:"parts"`
		}
		if err := json.Unmarshal(raw, &unit); err != nil {
			return err
		}
		if unit.Parts != nil {
			for _, p := range unit.Parts {
				if p.Unit == "" {
					p.Unit = unit.Name
				}
				g.Items = append(g.Items, p)
			}
			continue
		}
		var p SparePart
		if err := json.Unmarshal(raw, &p); err != nil {
			return err
		}
		g.Items = append(g.Items, p)
	}
	return nil
}

// FlexString decodes a JSON string or number as a string.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || string(data) == "null":
		*s = ""
	case data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
	default:
		*s = FlexString(data)
	}
	return nil
}
