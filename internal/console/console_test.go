package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodoCommands(t *testing.T) {
	var out bytes.Buffer
	c := New(&out)

	require.NoError(t, c.Exec("todo add buy milk | 2 litres"))
	require.NoError(t, c.Exec("todo add walk dog"))
	items := c.Todos.List()
	require.Len(t, items, 2)
	assert.Equal(t, "buy milk", items[0].Title)
	assert.Equal(t, "2 litres", items[0].Description)

	require.NoError(t, c.Exec("todo toggle "+items[0].ID))
	assert.Len(t, c.Todos.ListCompleted(), 1)

	out.Reset()
	require.NoError(t, c.Exec("todo clear"))
	assert.Equal(t, "cleared 1\n", out.String())

	assert.Error(t, c.Exec("todo toggle nope"))
	assert.Error(t, c.Exec("todo add"))
}

func TestNoteCommands(t *testing.T) {
	var out bytes.Buffer
	c := New(&out)

	require.NoError(t, c.Exec("note add Groceries | milk | #00FF00"))
	n := c.Notes.List()[0]
	assert.Equal(t, "#00FF00", n.Color)

	require.NoError(t, c.Exec("note edit "+n.ID+" Groceries | milk, eggs"))
	got, ok := c.Notes.Get(n.ID)
	require.True(t, ok)
	assert.Equal(t, "milk, eggs", got.Content)
	assert.Equal(t, "#00FF00", got.Color)

	out.Reset()
	require.NoError(t, c.Exec("note search EGGS"))
	assert.Contains(t, out.String(), "Groceries")

	require.NoError(t, c.Exec("note rm "+n.ID))
	assert.Error(t, c.Exec("note show "+n.ID))
}

func TestCalcAndCount(t *testing.T) {
	var out bytes.Buffer
	c := New(&out)

	require.NoError(t, c.Exec("calc 2 ^ 10"))
	require.NoError(t, c.Exec("sqrt 9"))
	require.NoError(t, c.Exec("count +"))
	require.NoError(t, c.Exec("count inc"))
	require.NoError(t, c.Exec("count dec"))
	assert.Equal(t, "1024\n3\n1\n2\n1\n", out.String())

	assert.Error(t, c.Exec("calc 4 / 0"))
	assert.Error(t, c.Exec("sqrt -1"))
	assert.Error(t, c.Exec("calc 1 + 2 + 3"))
}

func TestWatch(t *testing.T) {
	var out bytes.Buffer
	c := New(&out)
	require.NoError(t, c.Exec("watch show"))
	assert.Equal(t, "00:00 Stopped\n", out.String())

	require.NoError(t, c.Exec("watch start"))
	assert.Contains(t, out.String(), "Running")
	require.NoError(t, c.Exec("watch reset"))
	assert.True(t, strings.HasSuffix(out.String(), "00:00 Stopped\n"))
}

func TestRunStopsOnQuitAndReportsErrors(t *testing.T) {
	var out bytes.Buffer
	c := New(&out)
	in := strings.NewReader("bogus\ntodo add a\nquit\ntodo add b\n")

	require.NoError(t, c.Run(context.Background(), in))
	assert.Contains(t, out.String(), `error: unknown command "bogus"`)
	assert.Len(t, c.Todos.List(), 1)
}
