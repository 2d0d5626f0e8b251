package common

import (
	"path"
	"strings"
)

// UnknownStr is the String() fallback for out-of-range enum values.
const UnknownStr = "unknown"

// PkgAlias returns the package alias (last element of path) for a given package path.
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	return path.Base(pkgPath)
}

// SplitQualified splits a qualified name such as "example.com/svc.NewServer"
// into its package path and member name. The separator is the last dot after
// the last slash, so dotted host names in the path are preserved.
// ok is false when either part would be empty.
func SplitQualified(qualified string) (pkgPath, name string, ok bool) {
	slash := strings.LastIndex(qualified, "/")

	dot := strings.LastIndex(qualified[slash+1:], ".")
	if dot < 0 {
		return "", "", false
	}

	dot += slash + 1

	pkgPath, name = qualified[:dot], qualified[dot+1:]
	if pkgPath == "" || name == "" {
		return "", "", false
	}

	return pkgPath, name, true
}

// Qualify joins a package path and a member name.
func Qualify(pkgPath, name string) string {
	if pkgPath == "" {
		return name
	}

	return pkgPath + "." + name
}
