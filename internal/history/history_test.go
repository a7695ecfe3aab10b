package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRank(t *testing.T) {
	ranked := Rank(
		[]string{"basic", "python-service", "react-component", "vue-component"},
		map[string]int{"react-component": 4, "python-service": 1, "vue-component": 4, "removed": 9},
	)

	assert.Equal(t, []Ranked{
		{Name: "react-component", Count: 4},
		{Name: "vue-component", Count: 4},
		{Name: "python-service", Count: 1},
		{Name: "basic", Count: 0},
	}, ranked)
}

func TestRank_Empty(t *testing.T) {
	assert.Empty(t, Rank(nil, nil))
}
