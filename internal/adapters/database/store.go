package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"go.opentelemetry.io/otel/attribute"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/infrastructure/clients/postgres"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/infrastructure/observability"
	apperrors "github.com/EatWhereLa/eat-where-la-backend-server/pkg/errors"
)

// statement is any goqu dataset that renders to SQL and arguments.
type statement interface {
	ToSQL() (string, []interface{}, error)
}

// store runs one statement per call on a freshly acquired connection. Every
// statement is rendered in prepared mode, so values only travel as arguments.
type store struct {
	accessor *postgres.Accessor
	dialect  goqu.DialectWrapper
	metrics  *observability.Metrics
}

func newStore(accessor *postgres.Accessor, metrics *observability.Metrics) store {
	return store{
		accessor: accessor,
		dialect:  goqu.Dialect("postgres"),
		metrics:  metrics,
	}
}

func (s store) from(table interface{}) *goqu.SelectDataset {
	return s.dialect.From(table).Prepared(true)
}

func (s store) insert(table interface{}) *goqu.InsertDataset {
	return s.dialect.Insert(table).Prepared(true)
}

func (s store) update(table interface{}) *goqu.UpdateDataset {
	return s.dialect.Update(table).Prepared(true)
}

func (s store) delete(table interface{}) *goqu.DeleteDataset {
	return s.dialect.Delete(table).Prepared(true)
}

// exec runs a write statement. Pool exhaustion is returned unchanged; any
// other failure is a STORAGE error.
func (s store) exec(ctx context.Context, operation string, stmt statement) (sql.Result, error) {
	query, args, err := stmt.ToSQL()
	if err != nil {
		return nil, apperrors.NewStorageError("failed to build "+operation+" statement", err)
	}

	ctx, span := observability.StartSpan(ctx, "db."+operation)
	defer span.End()
	observability.SetSpanAttributes(span, attribute.String("db.operation", operation))

	conn, err := s.accessor.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	start := time.Now()
	result, err := conn.ExecContext(ctx, query, args...)
	observability.RecordDBMetric(ctx, s.metrics, operation, time.Since(start))
	if err != nil {
		observability.RecordError(span, err)
		observability.LoggerFromContext(ctx).Error().Err(err).Str("operation", operation).Msg("Statement execution failed")
		return nil, apperrors.NewStorageError("failed to execute "+operation, err)
	}
	return result, nil
}

// query runs a read statement and hands every row to scan.
func (s store) query(ctx context.Context, operation string, stmt statement, scan func(rowScanner) error) error {
	query, args, err := stmt.ToSQL()
	if err != nil {
		return apperrors.NewStorageError("failed to build "+operation+" query", err)
	}

	ctx, span := observability.StartSpan(ctx, "db."+operation)
	defer span.End()
	observability.SetSpanAttributes(span, attribute.String("db.operation", operation))

	conn, err := s.accessor.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	start := time.Now()
	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		observability.RecordDBMetric(ctx, s.metrics, operation, time.Since(start))
		observability.RecordError(span, err)
		return apperrors.NewStorageError("failed to execute "+operation, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			observability.RecordError(span, err)
			return apperrors.NewStorageError("failed to scan "+operation+" row", err)
		}
	}
	observability.RecordDBMetric(ctx, s.metrics, operation, time.Since(start))
	if err := rows.Err(); err != nil {
		observability.RecordError(span, err)
		return apperrors.NewStorageError("failed to read "+operation+" rows", err)
	}
	return nil
}

// queryRow runs a read statement expected to match at most one row. found is
// false when nothing matched.
func (s store) queryRow(ctx context.Context, operation string, stmt statement, scan func(rowScanner) error) (bool, error) {
	found := false
	err := s.query(ctx, operation, stmt, func(row rowScanner) error {
		if found {
			return nil
		}
		found = true
		return scan(row)
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// rowsAffected reads the affected count of a write result.
func rowsAffected(result sql.Result, operation string) (int64, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.NewStorageError("failed to get rows affected for "+operation, err)
	}
	return n, nil
}
