// Package alternation implements the `{{a|b}}` template expander and its
// two coalescers (spec §4.6): a flat coalescer for plain-string outputs,
// and a modes-aware coalescer operating on outputs.TestCaseOutputs.
package alternation

// Expansion is one fully-substituted rendering of an alternation template,
// tagged with the label recording which option was chosen at each site.
type Expansion struct {
	Text  string
	Label string
}

// DisplayLabel returns the label's rendering for group headers: the
// literal label, or "<empty>" if the label is empty (no alternation, or
// a single alternation whose empty option was chosen).
func (e Expansion) DisplayLabel() string {
	return displayLabel(e.Label)
}

func displayLabel(label string) string {
	if label == "" {
		return "<empty>"
	}
	return label
}
