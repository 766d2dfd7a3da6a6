package agent

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkpointerContract(t *testing.T, c Checkpointer) {
	ctx := context.Background()

	empty, err := c.Load(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, empty)

	first := []Message{{Role: RoleUser, Content: "hi"}, {Role: RoleAssistant, Content: "hello"}}
	require.NoError(t, c.Save(ctx, "t1", first))
	require.NoError(t, c.Save(ctx, "t2", []Message{{Role: RoleUser, Content: "other"}}))

	got, err := c.Load(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, first, got)

	replaced := []Message{{Role: RoleAssistant, Content: "summary"}}
	require.NoError(t, c.Save(ctx, "t1", replaced))
	got, err = c.Load(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, replaced, got)

	got, err = c.Load(ctx, "t2")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMemoryCheckpointer(t *testing.T) {
	c := NewMemoryCheckpointer()
	checkpointerContract(t, c)

	msgs := []Message{{Role: RoleUser, Content: "x"}}
	require.NoError(t, c.Save(context.Background(), "copy", msgs))
	msgs[0].Content = "mutated"
	got, _ := c.Load(context.Background(), "copy")
	assert.Equal(t, "x", got[0].Content)
}

func TestSQLiteCheckpointer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "history.db")
	c, err := NewSQLiteCheckpointer(path)
	require.NoError(t, err)
	checkpointerContract(t, c)
	require.NoError(t, c.Close())

	reopened, err := NewSQLiteCheckpointer(path)
	require.NoError(t, err)
	defer reopened.Close()
	got, err := reopened.Load(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, []Message{{Role: RoleAssistant, Content: "summary"}}, got)
}
