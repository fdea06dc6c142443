package template

import "strings"

// DedupLines removes every non-blank line that already appeared earlier in any
// body, walking bodies in order. Blank lines are kept, but each run of blank
// lines in a body collapses to one empty line.
func DedupLines(bodies []string) []string {
	seen := make(map[string]struct{})
	out := make([]string, len(bodies))
	for i, body := range bodies {
		var kept []string
		prevBlank := false
		for _, line := range splitLines(body) {
			if strings.TrimSpace(line) == "" {
				if !prevBlank {
					kept = append(kept, "")
				}
				prevBlank = true
				continue
			}
			if _, dup := seen[line]; dup {
				continue
			}
			seen[line] = struct{}{}
			kept = append(kept, line)
			prevBlank = false
		}
		out[i] = strings.Join(kept, "\n")
	}
	return out
}

// splitLines splits on "\n", drops a trailing "\r" from each line, and does not
// yield an empty final element for a trailing newline.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
