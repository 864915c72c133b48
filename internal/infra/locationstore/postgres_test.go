package locationstore

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/geoscore/internal/domain/geoscore"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPostgresStoreEnsureSchema(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS location_records").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, NewPostgresStore(mock).EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreSaveUpserts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	updated := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	record := geoscore.LocationRecord{RunID: "run-1", Location: "123 Main St", Score: 64, LastUpdated: updated}

	mock.ExpectExec("INSERT INTO location_records").
		WithArgs("123-main-st", pgxmock.AnyArg(), 64, updated).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, NewPostgresStore(mock).Save(context.Background(), "123-main-st", record))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreSaveError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO location_records").
		WillReturnError(errors.New("connection refused"))

	err = NewPostgresStore(mock).Save(context.Background(), "k", geoscore.LocationRecord{})
	require.ErrorContains(t, err, "upsert location record")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreLoad(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	raw, err := json.Marshal(geoscore.LocationRecord{RunID: "run-3", Location: "123 Main St", Score: 58})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT record").
		WithArgs("123-main-st").
		WillReturnRows(pgxmock.NewRows([]string{"record"}).AddRow(raw))

	got, ok, err := NewPostgresStore(mock).Load(context.Background(), "123-main-st")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "run-3", got.RunID)
	require.Equal(t, 58, got.Score)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreLoadMissing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT record").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, ok, err := NewPostgresStore(mock).Load(context.Background(), "missing")
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreLoadCorruptRow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT record").
		WithArgs("k").
		WillReturnRows(pgxmock.NewRows([]string{"record"}).AddRow([]byte("{not json")))

	_, _, err = NewPostgresStore(mock).Load(context.Background(), "k")
	require.ErrorContains(t, err, "decode record")
}
