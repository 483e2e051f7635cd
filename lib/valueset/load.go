package valueset

import (
	"path/filepath"
	"strings"
)

// Load reads value sets from a resource file. Files ending in .hcl are read
// with LoadHCL, everything else is treated as INI.
func Load(path string) ([]ValueSet, error) {
	var (
		sets []ValueSet
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		sets, err = LoadHCL(path)
	} else {
		sets, err = LoadINI(path)
	}
	if err != nil {
		return nil, err
	}
	Logger.Infof("loaded %d value sets from %s", len(sets), path)
	return sets, nil
}
