// Package bom renders the spec's hardware bill of materials.
package bom

import (
	"fmt"
	"strings"

	"github.com/chazu/spire/pkg/spec"
)

// Render formats the hardware list as a markdown table, in spec order.
func Render(sp *spec.Spec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s hardware\n\n", sp.Name)
	if len(sp.Hardware) == 0 {
		b.WriteString("No hardware items.\n")
		return b.String()
	}

	b.WriteString("| Item | Qty | Spec |\n")
	b.WriteString("|------|----:|------|\n")
	total := 0
	for _, h := range sp.Hardware {
		detail := h.Spec
		if detail == "" {
			detail = "-"
		}
		fmt.Fprintf(&b, "| %s | %d | %s |\n", h.Item, h.Qty, detail)
		total += h.Qty
	}
	fmt.Fprintf(&b, "| **Total** | %d | |\n", total)
	return b.String()
}
