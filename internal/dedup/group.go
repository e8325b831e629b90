package dedup

import "sort"

// DuplicateGroup is a set of confirmed duplicates: two or more
// records sharing a full content digest. Immutable after
// construction. Files are ordered by discovery index; all members
// have identical size by construction.
type DuplicateGroup struct {
	Digest      string
	Size        int64
	Files       []FileRecord
	WastedSpace int64
}

// BuildGroups assembles DuplicateGroups from the digest-keyed output
// of the full-hash stage. Singleton digests are dropped. The result
// is ordered by descending wasted space, ties broken by ascending
// digest. The ordering is reproducible for identical input and
// independent of worker scheduling because the key is content-derived.
func BuildGroups(byDigest map[string][]FileRecord) []DuplicateGroup {
	groups := make([]DuplicateGroup, 0, len(byDigest))
	for digest, files := range byDigest {
		if len(files) < 2 {
			continue
		}
		size := files[0].Size
		groups = append(groups, DuplicateGroup{
			Digest:      digest,
			Size:        size,
			Files:       files,
			WastedSpace: size * int64(len(files)-1),
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].WastedSpace != groups[j].WastedSpace {
			return groups[i].WastedSpace > groups[j].WastedSpace
		}
		return groups[i].Digest < groups[j].Digest
	})
	return groups
}
