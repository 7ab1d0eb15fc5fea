package curation

import (
	"sort"
	"strings"
)

const (
	TagAccepted       = "curation_accepted"
	tagRejectedPrefix = "rejected_"
	tagPhotosPrefix   = "photos_"
	tagOnlySuffix     = "_only"
)

// isPipelineTag reports whether t is owned by this pipeline. "<p>_only" is
// only ours when "photos_<p>" sits next to it, so a foreign "adults_only"
// survives.
func isPipelineTag(t string, existing map[string]bool) bool {
	switch {
	case t == TagAccepted,
		strings.HasPrefix(t, tagRejectedPrefix),
		strings.HasPrefix(t, tagPhotosPrefix):
		return true
	case strings.HasSuffix(t, tagOnlySuffix):
		return existing[tagPhotosPrefix+strings.TrimSuffix(t, tagOnlySuffix)]
	}
	return false
}

// RetagHotel recomputes the tags this pipeline owns and keeps foreign tags in
// their original order. The result is a set, and re-running it with the same
// inputs yields the same slice.
func RetagHotel(existing []string, providers []string, v Verdict) []string {
	had := make(map[string]bool, len(existing))
	for _, t := range existing {
		had[strings.TrimSpace(t)] = true
	}
	seen := make(map[string]bool, len(existing)+len(providers)+2)
	out := make([]string, 0, len(existing)+len(providers)+2)
	for _, t := range existing {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] || isPipelineTag(t, had) {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}

	var owned []string
	for _, p := range providers {
		owned = append(owned, tagPhotosPrefix+p)
	}
	if len(providers) == 1 {
		owned = append(owned, providers[0]+tagOnlySuffix)
	}
	if v.Accepted {
		owned = append(owned, TagAccepted)
	} else if v.Reason != "" {
		owned = append(owned, tagRejectedPrefix+v.Reason)
	}
	sort.Strings(owned)
	for _, t := range owned {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
