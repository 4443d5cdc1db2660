package shader

import "regexp"

// computeEntryAllRegex matches every @compute function in a source file and
// captures each entry point name. Unlike computeEntryRegex it is used with
// FindAll so kernels containing multiple entry points can be enumerated.
var computeEntryAllRegex = regexp.MustCompile(`@compute\b[^{]*?\bfn\s+(\w+)`)

// ComputeEntryPoints enumerates the names of all @compute entry point functions
// declared in the given WGSL source. Kernel builders use this to resolve a
// caller-requested entry point name against what the program actually declares,
// distinguishing "program compiled but no such kernel" from a compile failure.
//
// Parameters:
//   - source: the raw WGSL source code string
//
// Returns:
//   - []string: the entry point names in declaration order (empty if none)
func ComputeEntryPoints(source string) []string {
	cleaned := stripComments(source)
	matches := computeEntryAllRegex.FindAllStringSubmatch(cleaned, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

// HasComputeEntryPoint reports whether the given WGSL source declares a
// @compute entry point with the exact name provided.
//
// Parameters:
//   - source: the raw WGSL source code string
//   - name: the entry point name to look for
//
// Returns:
//   - bool: true if an entry point with that name exists
func HasComputeEntryPoint(source, name string) bool {
	for _, ep := range ComputeEntryPoints(source) {
		if ep == name {
			return true
		}
	}
	return false
}
