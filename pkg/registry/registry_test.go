package registry_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/adapters/file"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/dsl"
	"github.com/aretw0/turing/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func accepter(name string) domain.Description {
	d, err := dsl.New(name).Initial("q0").Final("qa").On("q0", "a").Right().Go("qa").Build()
	if err != nil {
		panic(err)
	}
	return d
}

func TestRegistry_EngineFromLoader(t *testing.T) {
	loader, err := memory.NewLoader(accepter("one"), accepter("two"))
	require.NoError(t, err)
	reg := registry.New(loader, turing.WithMaxSteps(10))
	ctx := context.Background()

	eng, err := reg.Engine(ctx, "one")
	require.NoError(t, err)
	assert.Equal(t, "one", eng.Name)

	again, err := reg.Engine(ctx, "one")
	require.NoError(t, err)
	assert.Same(t, eng, again, "engines are cached")

	out, err := eng.RunString(ctx, "a")
	require.NoError(t, err)
	assert.True(t, out.Accepted)

	_, err = reg.Engine(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrMachineNotFound)
}

func TestRegistry_Register(t *testing.T) {
	loader, err := memory.NewLoader(accepter("one"))
	require.NoError(t, err)
	reg := registry.New(loader)
	ctx := context.Background()

	require.NoError(t, reg.Register(accepter("extra")))
	require.NoError(t, reg.Register(accepter("one")))

	names, err := reg.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"extra", "one"}, names)

	desc, err := reg.Describe(ctx, "extra")
	require.NoError(t, err)
	assert.Equal(t, domain.State("q0"), desc.Initial)

	bad := accepter("bad")
	bad.Initial = "nowhere"
	assert.ErrorIs(t, reg.Register(bad), domain.ErrInvalidDescription)
	assert.ErrorIs(t, reg.Register(domain.Description{}), domain.ErrInvalidDescription)
}

func TestRegistry_NoLoader(t *testing.T) {
	reg := registry.New(nil)
	_, err := reg.Engine(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrMachineNotFound)

	names, err := reg.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestRegistry_Invalidate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "m.yaml")
	require.NoError(t, file.WriteFile(path, accepter("m")))

	reg := registry.New(file.NewLoader(dir))
	ctx := context.Background()

	first, err := reg.Engine(ctx, "m")
	require.NoError(t, err)

	changed := accepter("m")
	changed.Finals = []domain.State{"q0"}
	require.NoError(t, file.WriteFile(path, changed))

	reg.Invalidate("m")
	second, err := reg.Engine(ctx, "m")
	require.NoError(t, err)
	assert.NotSame(t, first, second)

	out, err := second.RunString(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 0, out.Steps)

	_, err = os.Stat(path)
	require.NoError(t, err)
}
