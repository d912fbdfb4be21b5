package helpers

// DeepCopyMap is a generic function to copy a map with any key and value types.
// A nil map is copied into an empty one.
func DeepCopyMap[K comparable, V any](original map[K]V) map[K]V {
	mapCopy := make(map[K]V, len(original))

	for key, value := range original {
		mapCopy[key] = value
	}

	return mapCopy
}
