package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// dateColumn renders a DATE column as YYYY-MM-DD.
func dateColumn(column, alias string) string {
	return fmt.Sprintf("to_char(%s, 'YYYY-MM-DD') AS %s", column, alias)
}

// requireAffected converts a zero-row write into sql.ErrNoRows.
func requireAffected(res sql.Result, op string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, sql.ErrNoRows)
	}
	return nil
}

func placeholders(n int) string {
	values := make([]string, n)
	for i := 1; i <= n; i++ {
		values[i-1] = fmt.Sprintf("$%d", i)
	}
	return strings.Join(values, ",")
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
