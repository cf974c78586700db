package partition

import (
	"fmt"
	"sort"

	"github.com/aretw0/plenum/pkg/domain"
)

// Assignment is the share of blocks one section receives.
type Assignment struct {
	Section string
	// Position is the configured position, possibly negative.
	Position int
	// Blocks are the absolute block indices merged into the section, in
	// document order. Empty when the position lies outside the document.
	Blocks []int
}

// Missing reports whether the section's position lies outside the document.
func (a Assignment) Missing() bool { return len(a.Blocks) == 0 }

// Plan maps every configured section onto the blocks of one document.
type Plan struct {
	// Assignments in positional order; missing sections come last.
	Assignments []Assignment
	// Dropped holds the leading blocks no section precedes.
	Dropped []int
}

// Resolve maps section positions onto blockCount blocks.
//
// Positions count from the front when non-negative and from the end
// otherwise. With tailClaimsRest, -1 claims every block from the first one
// after all other claimed blocks to the end. Blocks no section claims are
// merged into the nearest claimed block before them.
//
// Two sections with the same configured position, or with positions that
// resolve to the same block, fail with an AssignmentError.
func Resolve(positions map[string]int, blockCount int, tailClaimsRest bool) (Plan, error) {
	names := sortedNames(positions)

	byPosition := make(map[int][]string, len(positions))
	for _, name := range names {
		byPosition[positions[name]] = append(byPosition[positions[name]], name)
	}
	for _, pos := range sortedKeys(byPosition) {
		if sections := byPosition[pos]; len(sections) > 1 {
			return Plan{}, &domain.AssignmentError{Block: pos, Sections: sections}
		}
	}

	resolved := make(map[string]int, len(positions))
	var missing []string
	tail := ""
	for _, name := range names {
		pos := positions[name]
		if pos == -1 && tailClaimsRest {
			tail = name
			continue
		}
		idx := pos
		if pos < 0 {
			idx = blockCount + pos
		}
		if idx < 0 || idx >= blockCount {
			missing = append(missing, name)
			continue
		}
		resolved[name] = idx
	}
	if tail != "" {
		if idx, ok := tailStart(resolved, blockCount); ok {
			resolved[tail] = idx
		} else {
			missing = append(missing, tail)
		}
	}

	owner := make(map[int]string, len(resolved))
	for _, name := range names {
		idx, ok := resolved[name]
		if !ok {
			continue
		}
		if other, taken := owner[idx]; taken {
			return Plan{}, &domain.AssignmentError{Block: idx, Sections: []string{other, name}}
		}
		owner[idx] = name
	}

	var plan Plan
	current := -1
	for b := 0; b < blockCount; b++ {
		if name, ok := owner[b]; ok {
			plan.Assignments = append(plan.Assignments, Assignment{
				Section:  name,
				Position: positions[name],
				Blocks:   []int{b},
			})
			current = len(plan.Assignments) - 1
			continue
		}
		if current < 0 {
			plan.Dropped = append(plan.Dropped, b)
			continue
		}
		plan.Assignments[current].Blocks = append(plan.Assignments[current].Blocks, b)
	}
	for _, name := range missing {
		plan.Assignments = append(plan.Assignments, Assignment{Section: name, Position: positions[name]})
	}
	return plan, nil
}

// tailStart is the first block after every claimed one. When all blocks are
// claimed the tail falls back to the last block, where it collides.
func tailStart(resolved map[string]int, blockCount int) (int, bool) {
	if blockCount == 0 {
		return 0, false
	}
	start := 0
	for _, idx := range resolved {
		if idx+1 > start {
			start = idx + 1
		}
	}
	if start >= blockCount {
		start = blockCount - 1
	}
	return start, true
}

// missingError explains why a section received no block.
func missingError(a Assignment, blockCount int) error {
	return fmt.Errorf("%w: %s at position %d, document has %d blocks",
		domain.ErrSectionMissing, a.Section, a.Position, blockCount)
}

func sortedNames(m map[string]int) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedKeys(m map[int][]string) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
