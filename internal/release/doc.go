// Package release holds the value types shared by every release stage (version, matrix
// targets, output fragments) and the version gate that refuses already published versions.
package release
