package source

import (
	"context"
	"math"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/c3sdr/plot"
)

// ReadSQLite runs query against the SQLite database in dbFile and
// returns its result columns as a data frame named name. NULL values
// are masked and stored as NaN. Text values must parse as numbers.
func ReadSQLite(ctx context.Context, dbFile, name, query string) (df *plot.DataFrame, err error) {
	db, err := sqlx.Open("sqlite3", dbFile)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := db.Close(); err == nil {
			err = cerr
		}
	}()
	return Query(ctx, db, name, query)
}

// Query runs query on db and returns the result columns as a data
// frame, see ReadSQLite.
func Query(ctx context.Context, db *sqlx.DB, name, query string) (*plot.DataFrame, error) {
	rows, err := db.QueryxContext(ctx, query)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: query", name)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	cols := make([][]float64, len(header))
	masks := make([][]bool, len(header))
	for row := 0; rows.Next(); row++ {
		vals, err := rows.SliceScan()
		if err != nil {
			return nil, errors.Wrapf(err, "%s: row %d", name, row)
		}
		for j, val := range vals {
			v, miss, err := toFloat(val)
			if err != nil {
				return nil, errors.Wrapf(err, "%s: row %d column %s", name, row, header[j])
			}
			cols[j] = append(cols[j], v)
			masks[j] = append(masks[j], miss)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "%s", name)
	}

	df := plot.NewDataFrame(name)
	for j, h := range header {
		values := cols[j]
		if values == nil {
			values = []float64{}
		}
		if err := df.Add(h, values, compactMask(masks[j])); err != nil {
			return nil, err
		}
	}
	return df, nil
}

func toFloat(val interface{}) (v float64, miss bool, err error) {
	switch x := val.(type) {
	case nil:
		return math.NaN(), true, nil
	case int64:
		return float64(x), false, nil
	case float64:
		return x, false, nil
	case bool:
		if x {
			return 1, false, nil
		}
		return 0, false, nil
	case []byte:
		v, err = strconv.ParseFloat(string(x), 64)
		return v, false, err
	case string:
		v, err = strconv.ParseFloat(x, 64)
		return v, false, err
	}
	return 0, false, errors.Newf("unsupported value %T", val)
}
