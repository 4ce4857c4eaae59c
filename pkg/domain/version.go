package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is the four-component version reported by the host application.
// Katana formats releases as "<major>.<minor>v<release>" (e.g. "6.0v2"),
// with an optional build number appearing in full installer paths.
type Version struct {
	Major   int
	Minor   int
	Release int
	Build   int
}

// ParseVersion accepts both the dotted form ("6.0.1.4") and the Katana
// release form ("6.0v2"). Missing trailing components default to zero.
func ParseVersion(s string) (Version, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(s), "v", ".")
	normalized = strings.Trim(normalized, ".")
	if normalized == "" {
		return Version{}, fmt.Errorf("empty version string")
	}

	parts := strings.Split(normalized, ".")
	if len(parts) > 4 {
		return Version{}, fmt.Errorf("version %q has too many components", s)
	}

	nums := make([]int, 4)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Version{}, fmt.Errorf("invalid version component %q in %q", p, s)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Release: nums[2], Build: nums[3]}, nil
}

// Compare returns -1, 0 or 1 ordering v against other component-wise.
func (v Version) Compare(other Version) int {
	a := [4]int{v.Major, v.Minor, v.Release, v.Build}
	b := [4]int{other.Major, other.Minor, other.Release, other.Build}
	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// String renders the display form used in user-facing messages,
// e.g. "6.0v2".
func (v Version) String() string {
	return fmt.Sprintf("%d.%dv%d", v.Major, v.Minor, v.Release)
}

// HostInfo describes the application hosting the engine.
type HostInfo struct {
	Name    string
	Version Version
}
