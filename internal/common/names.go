package common

import "strings"

// PackageOf returns the package part of a dotted class name, or "" for a
// class in the default package.
func PackageOf(className string) string {
	if i := strings.LastIndexByte(className, '.'); i >= 0 {
		return className[:i]
	}

	return ""
}

// SimpleName returns the class name without its package.
func SimpleName(className string) string {
	return className[strings.LastIndexByte(className, '.')+1:]
}
