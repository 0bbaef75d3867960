package source_test

import (
	"context"
	"database/sql"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/c3sdr/plot/source"
)

const table = `time, temp, flag
1, 20.5, 0
2, NaN, 1
3, 21.5,
4, --, 0
`

func TestReadCSV(t *testing.T) {
	require := require.New(t)

	df, err := source.ReadCSV(strings.NewReader(table), "weather", source.CSVOptions{})
	require.NoError(err)
	require.Equal(4, df.N)
	require.Equal([]string{"time", "temp", "flag"}, df.FieldNames())

	tm, mask, err := df.Column("time")
	require.NoError(err)
	require.Equal([]float64{1, 2, 3, 4}, tm)
	require.Nil(mask)

	temp, mask, err := df.Column("temp")
	require.NoError(err)
	require.Equal([]bool{false, true, false, true}, mask)
	require.Equal(21.5, temp[2])
	require.True(math.IsNaN(temp[1]))

	_, mask, err = df.Column("flag")
	require.NoError(err)
	require.Equal([]bool{false, false, true, false}, mask)
}

func TestReadCSVErrors(t *testing.T) {
	require := require.New(t)

	_, err := source.ReadCSV(strings.NewReader(""), "empty", source.CSVOptions{})
	require.Error(err)

	_, err = source.ReadCSV(strings.NewReader("a,b\n1,x\n"), "bad", source.CSVOptions{})
	require.Error(err)
	require.Contains(err.Error(), "column b")

	_, err = source.ReadCSV(strings.NewReader("a,b\n1\n"), "short", source.CSVOptions{})
	require.Error(err)

	df, err := source.ReadCSV(strings.NewReader("a;b\n1;-\n"), "semi",
		source.CSVOptions{Comma: ';', Missing: []string{"-"}})
	require.NoError(err)
	_, mask, _ := df.Column("b")
	require.Equal([]bool{true}, mask)
}

func TestReadCSVFile(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "weather.csv")
	require.NoError(os.WriteFile(path, []byte(table), 0o644))
	df, err := source.ReadCSVFile(path, source.CSVOptions{})
	require.NoError(err)
	require.Equal("weather", df.Name)
	require.Equal(4, df.N)

	_, err = source.ReadCSVFile(filepath.Join(t.TempDir(), "missing.csv"), source.CSVOptions{})
	require.Error(err)
}

func tempDB(require *require.Assertions, dir string) string {
	dbFile := filepath.Join(dir, "samples.db")
	db, err := sql.Open("sqlite3", dbFile)
	require.NoError(err)
	defer db.Close()

	_, err = db.Exec(`
CREATE TABLE samples (lon FLOAT, lat FLOAT, value FLOAT, label VARCHAR(8));
INSERT INTO samples VALUES (8.5, 47.3, 1.5, '1');
INSERT INTO samples VALUES (8.6, 47.4, NULL, '2');
INSERT INTO samples VALUES (8, 47, 3, '3');
`)
	require.NoError(err)
	return dbFile
}

func TestReadSQLite(t *testing.T) {
	require := require.New(t)
	dbFile := tempDB(require, t.TempDir())
	ctx := context.Background()

	df, err := source.ReadSQLite(ctx, dbFile, "samples", "SELECT lon, lat, value, label FROM samples ORDER BY rowid")
	require.NoError(err)
	require.Equal(3, df.N)
	require.Equal([]string{"lon", "lat", "value", "label"}, df.FieldNames())

	lon, mask, err := df.Column("lon")
	require.NoError(err)
	require.Equal([]float64{8.5, 8.6, 8}, lon)
	require.Nil(mask)

	_, mask, err = df.Column("value")
	require.NoError(err)
	require.Equal([]bool{false, true, false}, mask)

	label, _, err := df.Column("label")
	require.NoError(err)
	require.Equal([]float64{1, 2, 3}, label)

	_, err = source.ReadSQLite(ctx, dbFile, "samples", "SELECT nope FROM samples")
	require.Error(err)

	df, err = source.ReadSQLite(ctx, dbFile, "none", "SELECT lon FROM samples WHERE lon > 100")
	require.NoError(err)
	require.Equal(0, df.N)
}
