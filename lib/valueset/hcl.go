package valueset

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// hclValueSetFile represents the top-level structure of a value set file for decoding.
type hclValueSetFile struct {
	ValueSets []*hclValueSet `hcl:"value_set,block"`
}

// hclValueSet is a single value_set block, its attributes are decoded by hand
type hclValueSet struct {
	Name   string   `hcl:"name,label"`
	Remain hcl.Body `hcl:",remain"`
}

// LoadHCL reads value sets from an HCL file.
//
//	value_set "admin" {
//	  tags     = ["admin", "linux"]
//	  username = "root"
//	  port     = 5432
//	}
//
// tags may also be given as a comma separated string. Non string values are
// converted to their string representation.
func LoadHCL(path string) ([]ValueSet, error) {
	file, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	return fromHCL(file, path)
}

// ParseHCL parses value sets from HCL formatted data, see LoadHCL
func ParseHCL(data []byte, filename string) ([]ValueSet, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	return fromHCL(file, filename)
}

func fromHCL(file *hcl.File, filename string) ([]ValueSet, error) {
	var parsed hclValueSetFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	sets := make([]ValueSet, 0, len(parsed.ValueSets))
	for _, block := range parsed.ValueSets {
		set, diags := decodeValueSet(block)
		if diags.HasErrors() {
			return nil, fmt.Errorf("error parsing value set %q in file %s: %w", block.Name, filename, diags)
		}
		sets = append(sets, normalize(set))
	}
	return sets, nil
}

// decodeValueSet converts the attributes of a value_set block into a ValueSet
func decodeValueSet(block *hclValueSet) (ValueSet, hcl.Diagnostics) {
	set := ValueSet{Name: block.Name, Data: make(map[string]string)}

	attrs, diags := block.Remain.JustAttributes()
	if diags.HasErrors() {
		return set, diags
	}

	for name, attr := range attrs {
		val, valDiags := attr.Expr.Value(nil)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			continue
		}

		if strings.EqualFold(name, TagsKey) {
			tags, err := ctyTags(val)
			if err != nil {
				diags = append(diags, invalidValue(attr, err))
				continue
			}
			set.Tags = tags
			continue
		}

		s, err := ctyString(val)
		if err != nil {
			diags = append(diags, invalidValue(attr, err))
			continue
		}
		set.Data[name] = s
	}
	return set, diags
}

// ctyTags accepts a list, tuple or set of strings or a comma separated string
func ctyTags(val cty.Value) ([]string, error) {
	ty := val.Type()
	if ty == cty.String {
		s, err := ctyString(val)
		if err != nil {
			return nil, err
		}
		return ParseTags(s), nil
	}

	if !ty.IsListType() && !ty.IsTupleType() && !ty.IsSetType() {
		return nil, fmt.Errorf("tags must be a list of strings or a comma separated string")
	}

	var tags []string
	it := val.ElementIterator()
	for it.Next() {
		_, v := it.Element()
		s, err := ctyString(v)
		if err != nil {
			return nil, err
		}
		if s = strings.TrimSpace(s); s != "" {
			tags = append(tags, s)
		}
	}
	return tags, nil
}

// ctyString converts a known, non null primitive value to a string
func ctyString(val cty.Value) (string, error) {
	if val.IsNull() || !val.IsKnown() {
		return "", fmt.Errorf("value must not be null")
	}
	converted, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", err
	}
	return converted.AsString(), nil
}

func invalidValue(attr *hcl.Attribute, err error) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "Invalid value set attribute",
		Detail:   fmt.Sprintf("The %q attribute is invalid: %s.", attr.Name, err),
		Subject:  attr.Expr.Range().Ptr(),
	}
}
