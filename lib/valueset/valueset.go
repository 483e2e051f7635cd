package valueset

import (
	"slices"
	"strings"
)

// TagsKey is the data key that carries the comma separated tag list of a value set
const TagsKey = "tags"

// ValueSet is a named bundle of configuration values that a single caller can
// reserve exclusively. Tags are case-sensitive and keep their configured order.
type ValueSet struct {
	Name string
	Tags []string
	Data map[string]string
}

// HasTags reports whether the set carries every given tag
func (v ValueSet) HasTags(tags ...string) bool {
	for _, tag := range tags {
		if !slices.Contains(v.Tags, tag) {
			return false
		}
	}
	return true
}

// Values returns a copy of the data of the set including the TagsKey entry
func (v ValueSet) Values() map[string]string {
	values := make(map[string]string, len(v.Data)+1)
	for k, val := range v.Data {
		values[k] = val
	}
	values[TagsKey] = strings.Join(v.Tags, ",")
	return values
}

// ParseTags splits a comma separated tag list, trims every tag and drops empty ones
func ParseTags(raw string) []string {
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// normalize lower-cases the data keys and moves a tags entry into Tags
func normalize(set ValueSet) ValueSet {
	data := make(map[string]string, len(set.Data))
	tags := slices.Clone(set.Tags)
	for k, v := range set.Data {
		k = strings.ToLower(k)
		if k == TagsKey {
			if len(tags) == 0 {
				tags = ParseTags(v)
			}
			continue
		}
		data[k] = v
	}
	return ValueSet{Name: set.Name, Tags: tags, Data: data}
}
