package hdf5

import "strings"

// JoinAttrPath names an attribute as object@attr, e.g. "/SoFiA@BITPIX".
func JoinAttrPath(objectPath, attrName string) string {
	if objectPath == "/" {
		return "/@" + attrName
	}
	return objectPath + "@" + attrName
}

// SplitPath splits a slash separated path, dropping empty components.
//
//	"/"          -> []
//	"/SoFiA"     -> ["SoFiA"]
//	"SoFiA/DATA" -> ["SoFiA", "DATA"]
func SplitPath(p string) []string {
	var parts []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return parts
}

func childPath(parent, name string) string {
	if parent == "/" {
		return "/" + name
	}
	return parent + "/" + name
}
