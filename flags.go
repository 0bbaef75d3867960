package plot

import (
	"github.com/cockroachdb/errors"
)

// FlagMask derives a sample mask from quality flags. dataFlags holds one
// row per flag kind, each of length n, and flags the bits tested in the
// corresponding row. Sample i is masked if dataFlags[k][i] & flags[k]
// is non-zero for any k. A zero flag value tests nothing.
func FlagMask(dataFlags [][]uint64, flags []uint64, n int) ([]bool, error) {
	if len(dataFlags) != len(flags) {
		return nil, errors.Wrapf(ErrInvalidSeries, "%d data flag rows but %d flags", len(dataFlags), len(flags))
	}
	mask := make([]bool, n)
	for k, row := range dataFlags {
		if len(row) != n {
			return nil, errors.Wrapf(ErrInvalidSeries, "data flag row %d has %d values, want %d", k, len(row), n)
		}
		if flags[k] == 0 {
			continue
		}
		for i, f := range row {
			if f&flags[k] != 0 {
				mask[i] = true
			}
		}
	}
	return mask, nil
}
