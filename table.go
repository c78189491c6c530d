package variogram

import (
	"fmt"
	"math"
)

// Missing marks an absent attribute value. It is NaN, so it is always
// distinguishable from a valid zero sample.
var Missing = math.NaN()

func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Table holds named attribute columns aligned with a PointSet. Columns are
// referenced, not copied; a Table is read-only once constructed.
type Table struct {
	names   []string
	columns map[string][]float64
}

func NewTable() *Table {
	return &Table{columns: make(map[string][]float64)}
}

func (t *Table) AddColumn(name string, values []float64) *Table {
	if _, ok := t.columns[name]; !ok {
		t.names = append(t.names, name)
	}
	t.columns[name] = values
	return t
}

func (t *Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

func (t *Table) Column(name string) ([]float64, error) {
	col, ok := t.columns[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return col, nil
}

// Indicators one-hot encodes a categorical column given as integer codes.
// Code c becomes column "<name>_<c>" with value 1 at rows holding c and 0
// elsewhere; negative codes are treated as missing. The resulting columns are
// the inputs of transiogram accumulation.
func Indicators(name string, codes []int, ncategories int) *Table {
	t := NewTable()
	for c := 0; c < ncategories; c++ {
		col := make([]float64, len(codes))
		for i, code := range codes {
			switch {
			case code < 0:
				col[i] = Missing
			case code == c:
				col[i] = 1
			default:
				col[i] = 0
			}
		}
		t.AddColumn(fmt.Sprintf("%s_%d", name, c), col)
	}
	return t
}
