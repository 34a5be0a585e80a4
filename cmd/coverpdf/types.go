package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/alnah/go-coverpdf"
)

// typeInfo is one row of the types listing.
type typeInfo struct {
	Type          string   `json:"type"`
	Name          string   `json:"name"`
	Title         string   `json:"title"`
	AllocatedMark string   `json:"allocated_mark"`
	Criteria      []string `json:"criteria"`
}

// listTypes describes every supported document type.
func listTypes() []typeInfo {
	var out []typeInfo
	for _, t := range coverpdf.SupportedTypes() {
		l, _ := coverpdf.LookupLayout(t)
		info := typeInfo{
			Type:          strings.TrimSuffix(string(t), ".pdf"),
			Name:          string(t),
			Title:         l.Title,
			AllocatedMark: l.AllocatedMark,
		}
		for _, c := range l.Criteria {
			info.Criteria = append(info.Criteria, fmt.Sprintf("%s (%s)", c.Label(), c.Mark))
		}
		out = append(out, info)
	}
	return out
}

// runTypes prints the supported document types, as a table or with --json.
func runTypes(args []string, env *Environment) error {
	asJSON := false
	for _, a := range args {
		switch a {
		case "--json":
			asJSON = true
		default:
			return fmt.Errorf("%w: types: unexpected %q", ErrInvalidArgs, a)
		}
	}

	types := listTypes()
	if asJSON {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(types)
	}

	tw := tabwriter.NewWriter(env.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tTITLE\tMARKS\tCRITERIA")
	for _, t := range types {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.Type, t.Title, t.AllocatedMark, strings.Join(t.Criteria, ", "))
	}
	return tw.Flush()
}
