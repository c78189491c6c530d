package variogram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingDistinguishableFromZero(t *testing.T) {
	a := assert.New(t)

	a.True(IsMissing(Missing))
	a.False(IsMissing(0))
	a.False(IsMissing(-0.0))
}

func TestTableColumns(t *testing.T) {
	a := assert.New(t)

	tab := NewTable().
		AddColumn("zinc", []float64{1, 2, 3}).
		AddColumn("lead", []float64{4, 5, 6})

	a.Equal([]string{"zinc", "lead"}, tab.Names())

	col, err := tab.Column("lead")
	require.NoError(t, err)
	a.Equal([]float64{4, 5, 6}, col)

	_, err = tab.Column("gold")
	a.ErrorIs(err, ErrUnknownColumn)
}

func TestIndicators(t *testing.T) {
	a := assert.New(t)

	tab := Indicators("facies", []int{0, 2, 1, -1}, 3)
	names := tab.Names()
	require.Equal(t, []string{"facies_0", "facies_1", "facies_2"}, names)

	c0, _ := tab.Column("facies_0")
	c1, _ := tab.Column("facies_1")
	c2, _ := tab.Column("facies_2")

	a.Equal(1.0, c0[0])
	a.Equal(0.0, c1[0])
	a.Equal(1.0, c2[1])
	a.Equal(1.0, c1[2])

	// One-hot rows sum to one; negative codes are missing everywhere.
	for row := 0; row < 3; row++ {
		a.Equal(1.0, c0[row]+c1[row]+c2[row])
	}
	a.True(IsMissing(c0[3]))
	a.True(IsMissing(c1[3]))
	a.True(IsMissing(c2[3]))
}
