package extract

import (
	"fmt"
	"strings"

	"github.com/alembic-io/alembic/internal/facet"
)

// expandInputs renders each top-level composition input into its expanded
// display string, in declared order. Inputs whose resource attachment is
// unresolved are skipped; a tree deeper than maxRecipeDepth fails the whole
// expansion.
func expandInputs(inputs []*facet.RecipeNode) ([]string, error) {
	composedOf := []string{}

	for _, input := range inputs {
		expanded, err := expandNode(input, 0)
		if err != nil {
			return nil, err
		}

		if expanded == "" {
			continue
		}

		composedOf = append(composedOf, expanded)
	}

	return composedOf, nil
}

// expandNode recursively renders one composition node. A leaf returns its
// resolved name; a node with inputs returns "name (child1, child2, ...)"
// with children in declared order. A node with an unresolved resource
// renders as the empty string and is dropped by its caller.
func expandNode(node *facet.RecipeNode, depth int) (string, error) {
	if depth > maxRecipeDepth {
		return "", fmt.Errorf("%w: depth %d", ErrRecipeTooDeep, depth)
	}

	if node == nil || node.Resource == nil {
		return "", nil
	}

	name := node.Resource.DisplayName()

	if len(node.Inputs) == 0 {
		return name, nil
	}

	children := make([]string, 0, len(node.Inputs))

	for _, input := range node.Inputs {
		expanded, err := expandNode(input, depth+1)
		if err != nil {
			return "", err
		}

		if expanded == "" {
			continue
		}

		children = append(children, expanded)
	}

	if len(children) == 0 {
		return name, nil
	}

	return fmt.Sprintf("%s (%s)", name, strings.Join(children, ", ")), nil
}
