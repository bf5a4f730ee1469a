package slacklog

import (
	"sort"
	"strings"
)

// GuardTag marks log entries that originate from this pipeline. The router
// discards any event carrying it, so a failed delivery that gets reported
// through the host's log channel can never re-trigger forwarding. The value
// is kept byte-compatible with the original webhook contract.
const GuardTag = "hapi-slack"

// Tags is the incoming tag set in either of its two accepted shapes:
// an explicit ordered list (TagList) or a membership mapping (TagMap).
type Tags interface {
	Names() []string
}

// TagList is an ordered sequence of tag names.
type TagList []string

// Names returns the list as-is.
func (t TagList) Names() []string { return t }

// Contains reports whether name is present (case-sensitive).
func (t TagList) Contains(name string) bool {
	for _, tag := range t {
		if tag == name {
			return true
		}
	}
	return false
}

// Intersects reports whether the list shares at least one tag with other.
func (t TagList) Intersects(other []string) bool {
	for _, tag := range other {
		if t.Contains(tag) {
			return true
		}
	}
	return false
}

// Join concatenates the tags with sep.
func (t TagList) Join(sep string) string {
	return strings.Join(t, sep)
}

// TagMap is the mapping form: keys are tag names, a true value means the tag
// is present.
type TagMap map[string]bool

// Names returns the truthy keys. Go maps carry no iteration order, so keys
// are returned sorted to keep normalization deterministic.
func (t TagMap) Names() []string {
	names := make([]string, 0, len(t))
	for name, present := range t {
		if present {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

/**
 * Normalize converts either tag representation into the canonical TagList:
 * the order-preserving set union of the raw tags with additional, first
 * occurrence wins, duplicates collapsed. Comparison is case-sensitive.
 *
 * @param raw Incoming tags in list or mapping form (nil yields empty)
 * @param additional Configured tags merged into every notification
 * @return TagList Canonical duplicate-free tag sequence
 */
func Normalize(raw Tags, additional []string) TagList {
	var names []string
	if raw != nil {
		names = raw.Names()
	}

	seen := make(map[string]struct{}, len(names)+len(additional))
	out := make(TagList, 0, len(names)+len(additional))

	for _, group := range [][]string{names, additional} {
		for _, name := range group {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}

	return out
}
