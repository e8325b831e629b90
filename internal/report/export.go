package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"dedup-go/internal/dedup"
)

// jsonReport is the export envelope. The group sequence is already
// materialized and ordered when it reaches this layer.
type jsonReport struct {
	Generated time.Time   `json:"generated"`
	Stats     jsonStats   `json:"stats"`
	Groups    []jsonGroup `json:"groups"`
}

type jsonStats struct {
	FilesScanned    int64   `json:"files_scanned"`
	FilesHashed     int64   `json:"files_hashed"`
	BytesScanned    int64   `json:"bytes_scanned"`
	DuplicatesFound int64   `json:"duplicates_found"`
	WastedSpace     int64   `json:"wasted_space"`
	ScanSeconds     float64 `json:"scan_seconds"`
}

type jsonGroup struct {
	Digest      string     `json:"digest"`
	Size        int64      `json:"size"`
	Count       int        `json:"count"`
	WastedSpace int64      `json:"wasted_space"`
	Files       []jsonFile `json:"files"`
}

type jsonFile struct {
	Path     string    `json:"path"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// WriteJSON exports the scan result as indented JSON.
func WriteJSON(w io.Writer, res *dedup.ScanResult, generated time.Time) error {
	doc := jsonReport{
		Generated: generated,
		Stats: jsonStats{
			FilesScanned:    res.Stats.FilesScanned,
			FilesHashed:     res.Stats.FilesHashed,
			BytesScanned:    res.Stats.BytesScanned,
			DuplicatesFound: res.Stats.DuplicatesFound,
			WastedSpace:     res.Stats.WastedSpace,
			ScanSeconds:     res.Stats.Elapsed.Seconds(),
		},
		Groups: make([]jsonGroup, 0, len(res.Groups)),
	}

	for _, group := range res.Groups {
		jg := jsonGroup{
			Digest:      group.Digest,
			Size:        group.Size,
			Count:       len(group.Files),
			WastedSpace: group.WastedSpace,
			Files:       make([]jsonFile, 0, len(group.Files)),
		}
		for _, rec := range group.Files {
			jg.Files = append(jg.Files, jsonFile{
				Path:     rec.Path,
				Size:     rec.Size,
				Modified: rec.ModTime,
			})
		}
		doc.Groups = append(doc.Groups, jg)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding JSON report: %w", err)
	}
	return nil
}

// WriteCSV exports one row per group member:
// group,digest,size,path,modified.
func WriteCSV(w io.Writer, groups []dedup.DuplicateGroup) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"group", "digest", "size", "path", "modified"}); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for i, group := range groups {
		groupNum := strconv.Itoa(i + 1)
		size := strconv.FormatInt(group.Size, 10)
		for _, rec := range group.Files {
			row := []string{groupNum, group.Digest, size, rec.Path, rec.ModTime.Format(time.RFC3339)}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("writing CSV row for %s: %w", rec.Path, err)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}
