package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lafritemema/MARS-data-build/internal/compiler"
	"github.com/lafritemema/MARS-data-build/internal/model"
	"github.com/lafritemema/MARS-data-build/internal/proxy"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func drillAction() model.Action {
	return model.Action{
		Type:        model.WorkDrill,
		Description: "drill hole 4",
		Definition:  &model.Drilling{Speed: 3000, Feed: 50},
	}
}

func loadAction() model.Action {
	return model.Action{
		Type: model.LoadEffector,
		Definition: &model.Manipulation{
			Operation: model.Load,
			Equipment: model.Equipment{Type: model.EquipmentEffector, Reference: "WEB_C_DRILLING"},
		},
	}
}

// createTestSequence compiles a with fixed tracker uids.
func createTestSequence(t *testing.T, a model.Action, uids ...string) Sequence {
	t.Helper()
	c := compiler.New(compiler.WithBuilder(proxy.NewBuilder(proxy.NewFixedGenerator(uids...))))
	cmds, err := c.Compile(a)
	require.NoError(t, err)

	seq, err := NewSequence(a.Type, a.Description, cmds)
	require.NoError(t, err)
	return seq
}
