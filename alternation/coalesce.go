package alternation

import (
	"sort"
	"strings"
)

// CaseResult is one expansion's callback outcome, ready for coalescing.
type CaseResult struct {
	Label  string
	Result string
}

// Coalesce implements the flat (baseline) coalescer of spec §4.6: if
// every result is identical, it is emitted directly; otherwise labels are
// grouped by result, groups are ordered by the smallest original index of
// any member label, and each group is rendered under an
// `ALTERNATION GROUP(S):` header, separated by `--`.
func Coalesce(results []CaseResult) string {
	if len(results) == 0 {
		return ""
	}

	allEqual := true
	for _, r := range results[1:] {
		if r.Result != results[0].Result {
			allEqual = false
			break
		}
	}
	if allEqual {
		return results[0].Result
	}

	type group struct {
		labels     []string
		result     string
		firstIndex int
	}
	byResult := make(map[string]*group)
	var groups []*group
	for i, r := range results {
		g, exists := byResult[r.Result]
		if !exists {
			g = &group{result: r.Result, firstIndex: i}
			byResult[r.Result] = g
			groups = append(groups, g)
		}
		g.labels = append(g.labels, displayLabel(r.Label))
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].firstIndex < groups[j].firstIndex })

	var b strings.Builder
	for i, g := range groups {
		if i > 0 {
			b.WriteString("--\n")
		}
		b.WriteString(groupHeader(g.labels))
		b.WriteString(g.result)
	}
	return b.String()
}

func groupHeader(labels []string) string {
	if len(labels) == 1 {
		return "ALTERNATION GROUP: " + labels[0] + "\n"
	}
	var b strings.Builder
	b.WriteString("ALTERNATION GROUPS:\n")
	for _, l := range labels {
		b.WriteString("    " + l + "\n")
	}
	return b.String()
}
