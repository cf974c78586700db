package graph_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/plenum"
	"github.com/aretw0/plenum/internal/presentation/graph"
)

func TestGenerateMermaid(t *testing.T) {
	p, err := plenum.New()
	require.NoError(t, err)
	record, err := p.ParseFile(context.Background(), "../../../testdata/18230.txt")
	require.NoError(t, err)

	out := graph.GenerateMermaid(record)

	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, `agenda(("18/230"))`)
	assert.Contains(t, out, `n0["Tagesordnungspunkt 1<br/>Befragung der Bundesregierung"]`)
	assert.Contains(t, out, "agenda --> n0")
	// Sub-items of the second item hang off it as rounded nodes.
	assert.Contains(t, out, "n1 --> n1_0")
	assert.Contains(t, out, `n1_0("`)
	assert.Contains(t, out, "-.->")
}
