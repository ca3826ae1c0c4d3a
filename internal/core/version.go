package core

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// versionDirPattern matches "01.07.01_60" or "01.07.01".
var versionDirPattern = regexp.MustCompile(`(\d{2}\.\d{2}\.\d{2}(?:_\d{2})?)`)

// DefaultReleaseCode is used when a version directory has no "_NN" suffix.
const DefaultReleaseCode = "00"

// ParseVersionDir extracts a VersionEntry from any string containing a
// version directory name, such as an href.
func ParseVersionDir(s string) (VersionEntry, bool) {
	m := versionDirPattern.FindStringSubmatch(s)
	if m == nil {
		return VersionEntry{}, false
	}
	dir := m[1]
	number, release, found := strings.Cut(dir, "_")
	if !found {
		release = DefaultReleaseCode
	}
	return VersionEntry{Directory: dir, Number: number, ReleaseCode: release}, true
}

// SortVersions orders versions newest first. All groups are fixed-width and
// zero-padded so string comparison gives numeric order.
func SortVersions(versions []VersionEntry) {
	sort.SliceStable(versions, func(i, j int) bool {
		if versions[i].Number != versions[j].Number {
			return versions[i].Number > versions[j].Number
		}
		return versions[i].ReleaseCode > versions[j].ReleaseCode
	})
}

// FormatVersion converts "01.07.01" to "V1.7.1". Input that is not three
// numeric groups is returned unchanged.
func FormatVersion(number string) string {
	parts := strings.Split(number, ".")
	if len(parts) < 3 {
		return number
	}
	nums := make([]int, 3)
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			return number
		}
		nums[i] = n
	}
	return fmt.Sprintf("V%d.%d.%d", nums[0], nums[1], nums[2])
}

// SemVer returns "1.7.1" for "01.07.01", used in Package URLs.
func SemVer(number string) string {
	return strings.TrimPrefix(FormatVersion(number), "V")
}
