package curation

type PolicyMode string

const (
	// PolicyBoth requires width >= MinWidth and height >= MinHeight.
	PolicyBoth PolicyMode = "both"
	// PolicyArea requires width*height >= MinPixels. It admits thin images,
	// so it is kept for providers whose legacy tuning depends on it.
	PolicyArea PolicyMode = "area"
)

type ResolutionPolicy struct {
	Mode      PolicyMode
	MinWidth  int
	MinHeight int
	MinPixels int
}

// AreaPolicy builds a single-threshold policy from reference dimensions,
// e.g. AreaPolicy(1280, 900).
func AreaPolicy(w, h int) ResolutionPolicy {
	return ResolutionPolicy{Mode: PolicyArea, MinPixels: w * h}
}

// Passes reports whether c meets the policy. Unknown dimensions never pass.
func (p ResolutionPolicy) Passes(c PhotoCandidate) bool {
	if c.Width <= 0 || c.Height <= 0 {
		return false
	}
	switch p.Mode {
	case PolicyArea:
		return c.Width*c.Height >= p.MinPixels
	default:
		return c.Width >= p.MinWidth && c.Height >= p.MinHeight
	}
}

// FilterResolution keeps the candidates that pass p, preserving order.
func FilterResolution(cands []PhotoCandidate, p ResolutionPolicy) []PhotoCandidate {
	out := make([]PhotoCandidate, 0, len(cands))
	for _, c := range cands {
		if p.Passes(c) {
			out = append(out, c)
		}
	}
	return out
}
