package dedup

// SizeGroups partitions records by exact byte size and drops groups
// with a single member: files with a unique size cannot have a
// duplicate, so they never reach a hashing stage. The slices preserve
// discovery order, making the result deterministic for identical
// input order.
func SizeGroups(records []FileRecord) map[int64][]FileRecord {
	bySize := make(map[int64][]FileRecord)
	for _, rec := range records {
		bySize[rec.Size] = append(bySize[rec.Size], rec)
	}
	for size, group := range bySize {
		if len(group) < 2 {
			delete(bySize, size)
		}
	}
	return bySize
}
