package workspace

import "github.com/dhamidi/tablature/source"

// Diff returns a single edit turning old into new: the span between their
// common prefix and common suffix, replaced.
func Diff(old, new string) source.Edit {
	prefix := 0
	for prefix < len(old) && prefix < len(new) && old[prefix] == new[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(old)-prefix && suffix < len(new)-prefix &&
		old[len(old)-1-suffix] == new[len(new)-1-suffix] {
		suffix++
	}
	return source.Edit{
		From:   prefix,
		To:     len(old) - suffix,
		Insert: new[prefix : len(new)-suffix],
	}
}
