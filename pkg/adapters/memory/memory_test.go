package memory_test

import (
	"testing"

	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func machine(name string) domain.Description {
	return domain.Description{
		Name:     name,
		States:   []domain.State{"a", "b"},
		Alphabet: []domain.Symbol{"x", "_"},
		Blank:    "_",
		Initial:  "a",
		Finals:   []domain.State{"b"},
		Rules:    []domain.Rule{{From: "a", Read: "x", To: "b", Write: "x", Move: domain.Right}},
	}
}

func TestLoader_Contract(t *testing.T) {
	one, two := machine("one"), machine("two")
	loader, err := memory.NewLoader(two, one)
	require.NoError(t, err)

	ports.RunDescriptionLoaderContract(t, loader, map[string]domain.Description{
		"one": one,
		"two": two,
	})
}

func TestLoader_RejectsBadInput(t *testing.T) {
	_, err := memory.NewLoader(machine(""))
	assert.Error(t, err)

	_, err = memory.NewLoader(machine("dup"), machine("dup"))
	assert.Error(t, err)
}

func TestStore_Contract(t *testing.T) {
	ports.RunStateStoreContract(t, memory.NewStore())
}
