package model

import "regexp"

// ClassLevels are the levels a class name may start with.
var ClassLevels = []string{"Nursery", "LKG", "UKG", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}

// classNamePattern matches a level immediately followed by a section letter, e.g. "5A" or "UKGC".
var classNamePattern = regexp.MustCompile(`^(Nursery|LKG|UKG|10|[1-9])[A-Z]$`)

// ClassName joins a level and a section into a class name.
func ClassName(level, section string) string {
	return level + section
}

// IsValidClassName reports whether name is a level followed by a section letter.
func IsValidClassName(name string) bool {
	return classNamePattern.MatchString(name)
}
