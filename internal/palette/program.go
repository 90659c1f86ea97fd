package palette

import (
	"fmt"
	"strconv"
	"strings"
)

// menuProgram drives rofi in dmenu mode or dmenu itself.
type menuProgram struct {
	command string
	rofi    bool
	run     runFunc
}

func (p *menuProgram) Show(prompt string, items []Item) (Item, error) {
	if len(items) == 0 {
		return Item{}, fmt.Errorf("menu: no items to show")
	}

	labels := p.labels(items)
	out, err := p.run(p.command, p.args(prompt, items), strings.Join(labels, "\n"))
	selection := strings.TrimSpace(out)
	if selection == "" {
		if err != nil && !isCancelExit(err) {
			return Item{}, err
		}
		return Item{}, ErrCancelled
	}

	// rofi prints the row index (-format i); dmenu prints the label.
	if p.rofi {
		if idx, convErr := strconv.Atoi(selection); convErr == nil {
			if idx < 0 || idx >= len(items) {
				return Item{}, fmt.Errorf("menu: index %d out of range", idx)
			}
			return items[idx], nil
		}
	}
	for i, l := range labels {
		if l == selection {
			return items[i], nil
		}
	}
	return Item{}, fmt.Errorf("menu: unknown selection %q", selection)
}

func (p *menuProgram) args(prompt string, items []Item) []string {
	if !p.rofi {
		args := []string{"-i", "-l", "20"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
		return args
	}

	args := []string{"-dmenu", "-i", "-format", "i", "-no-custom"}
	if prompt != "" {
		args = append(args, "-p", prompt)
	}
	var active, urgent []int
	for i, it := range items {
		if it.Active {
			active = append(active, i)
		}
		if it.Urgent {
			urgent = append(urgent, i)
		}
	}
	if len(active) > 0 {
		args = append(args, "-a", formatIndices(active), "-selected-row", strconv.Itoa(active[0]))
	}
	if len(urgent) > 0 {
		args = append(args, "-u", formatIndices(urgent))
	}
	return args
}

// labels sanitizes item labels. dmenu selects by text, so duplicates get
// a numeric suffix.
func (p *menuProgram) labels(items []Item) []string {
	out := make([]string, len(items))
	seen := make(map[string]int)
	for i, it := range items {
		l := sanitizeLabel(it.Label)
		if !p.rofi {
			if n := seen[l]; n > 0 {
				seen[l]++
				l = fmt.Sprintf("%s (%d)", l, n+1)
			} else {
				seen[l] = 1
			}
		}
		out[i] = l
	}
	return out
}

func sanitizeLabel(label string) string {
	label = strings.ReplaceAll(label, "\r", " ")
	label = strings.ReplaceAll(label, "\n", " ")
	return strings.TrimSpace(label)
}

func formatIndices(indices []int) string {
	parts := make([]string, 0, len(indices))
	for _, i := range indices {
		parts = append(parts, strconv.Itoa(i))
	}
	return strings.Join(parts, ",")
}
