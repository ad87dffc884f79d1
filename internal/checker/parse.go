package checker

import (
	"strings"

	"github.com/pacwatch/pacwatch/internal/state"
)

// ParseUpdates turns `pacman -Qu` style output into structured updates,
// tagging each with the given source. Expected line shape is
// "name current -> latest"; lines with fewer than three whitespace-separated
// tokens are skipped. Input order is preserved.
func ParseUpdates(output string, source state.Source) []state.PackageUpdate {
	var updates []state.PackageUpdate
	for _, line := range strings.Split(output, "\n") {
		tokens := strings.Fields(line)
		if len(tokens) < 3 {
			continue
		}
		latest := tokens[len(tokens)-1]
		for i, tok := range tokens {
			if tok == "->" && i+1 < len(tokens) {
				latest = tokens[i+1]
				break
			}
		}
		updates = append(updates, state.PackageUpdate{
			Name:    tokens[0],
			Current: tokens[1],
			Latest:  latest,
			Source:  source,
		})
	}
	return updates
}
