package config

import (
	"github.com/Masterminds/semver/v3"
)

// formatConstraint accepts config files with the same major and minor format
// version; patch releases only add optional keys.
var formatConstraint *semver.Constraints

func init() {
	var err error
	formatConstraint, err = semver.NewConstraint("~" + ConfigFormatVersion)
	if err != nil {
		panic(err)
	}
}

// IsFormatCompatible reports whether a config file written with the given
// format version can be read. Returns false for invalid version strings.
func IsFormatCompatible(version string) bool {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return formatConstraint.Check(v)
}
