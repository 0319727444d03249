package syntax

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDumpShort(t *testing.T) {
	roots := parse(t, addTables(), []Token{
		{Symbol: addNUM, Span: Span{0, 1}, Text: "1"},
		{Symbol: addPLUS, Span: Span{1, 2}, Text: "+"},
		{Symbol: addNUM, Span: Span{2, 4}, Text: "23"},
	})

	var buf bytes.Buffer
	require.NoError(t, DumpShort(&buf, roots))
	require.Equal(t, "add\n  num \"1\"\n  num \"23\"\n", buf.String())
}

func TestDumpJSON(t *testing.T) {
	roots := parse(t, pairTables(false), toks(pairA, pairB))

	var buf bytes.Buffer
	require.NoError(t, DumpJSON(&buf, roots))

	var dumped []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &dumped))
	require.Len(t, dumped, 1)
	require.Equal(t, "pair", dumped[0]["emit"])
	require.Equal(t, []interface{}{float64(0), float64(2)}, dumped[0]["span"])

	children := dumped[0]["children"].([]interface{})
	require.Len(t, children, 2)
	require.Equal(t, "b", children[1].(map[string]interface{})["emit"])
	require.NotContains(t, children[1], "children")
	require.NotContains(t, children[1], "match")
}
