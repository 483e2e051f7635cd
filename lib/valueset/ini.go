package valueset

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// LoadINI reads value sets from an INI file.
// Every section is a value set named after the section, keys are lower-cased
// and the "tags" key holds a comma separated list. Keys of the DEFAULT section
// apply to every set unless the set overrides them.
//
//	[admin]
//	tags = admin, linux
//	username = root
func LoadINI(path string) ([]ValueSet, error) {
	cfg, err := ini.LoadSources(iniOptions, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load value sets from %s: %w", path, err)
	}
	return fromINI(cfg), nil
}

// ParseINI parses value sets from INI formatted data, see LoadINI
func ParseINI(data []byte) ([]ValueSet, error) {
	cfg, err := ini.LoadSources(iniOptions, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse value sets: %w", err)
	}
	return fromINI(cfg), nil
}

var iniOptions = ini.LoadOptions{
	InsensitiveKeys: true,
}

func fromINI(cfg *ini.File) []ValueSet {
	defaults := cfg.Section(ini.DefaultSection)

	var sets []ValueSet
	for _, section := range cfg.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}

		data := make(map[string]string, len(defaults.Keys())+len(section.Keys()))
		for _, key := range defaults.Keys() {
			data[key.Name()] = key.String()
		}
		for _, key := range section.Keys() {
			data[key.Name()] = key.String()
		}

		set := ValueSet{Name: section.Name(), Data: data}
		if raw, ok := data[TagsKey]; ok {
			set.Tags = ParseTags(raw)
		}
		sets = append(sets, normalize(set))
	}
	return sets
}
