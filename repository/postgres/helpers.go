package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/shahzaib1233/todo-app-phase-2/repository"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// orderClause builds ORDER BY from the whitelisted sort columns only.
func orderClause(sort repository.TaskSort) string {
	dir := "ASC"
	if sort.Descending() {
		dir = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s, id %s", sort.Column(), dir, dir)
}
