package store

import (
	"context"
	"database/sql"

	"results-portal/models"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const mysqlDuplicateEntry = 1062

const resultColumns = `id, name, father_name, roll_number, examination, college, stream,
	medium, passing_year, session, total_marks, created_at, updated_at`

// SQLStore keeps results in a relational database (MySQL or SQLite) with
// subjects in a child table ordered by position.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) FindByRollNumber(ctx context.Context, rollNumber string) (*models.Result, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+resultColumns+" FROM results WHERE roll_number = ?", rollNumber)
	return s.load(ctx, row)
}

func (s *SQLStore) FindByID(ctx context.Context, id string) (*models.Result, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+resultColumns+" FROM results WHERE id = ?", id)
	return s.load(ctx, row)
}

func (s *SQLStore) load(ctx context.Context, row *sql.Row) (*models.Result, error) {
	var r models.Result
	err := row.Scan(&r.ID, &r.Name, &r.FatherName, &r.RollNumber, &r.Examination, &r.College,
		&r.Stream, &r.Medium, &r.PassingYear, &r.Session, &r.TotalMarks, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "scan result")
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT code, name, marks, grade FROM result_subjects WHERE result_id = ? ORDER BY position", r.ID)
	if err != nil {
		return nil, errors.Wrap(err, "query subjects")
	}
	defer rows.Close()

	r.Subjects = []models.Subject{}
	for rows.Next() {
		var sub models.Subject
		if err := rows.Scan(&sub.Code, &sub.Name, &sub.Marks, &sub.Grade); err != nil {
			return nil, errors.Wrap(err, "scan subject")
		}
		r.Subjects = append(r.Subjects, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate subjects")
	}
	return &r, nil
}

func (s *SQLStore) Insert(ctx context.Context, r *models.Result) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "INSERT INTO results ("+resultColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			r.ID, r.Name, r.FatherName, r.RollNumber, r.Examination, r.College, r.Stream,
			r.Medium, r.PassingYear, r.Session, r.TotalMarks, r.CreatedAt, r.UpdatedAt)
		if err != nil {
			return translate(err, "insert result")
		}
		return insertSubjects(ctx, tx, r)
	})
}

func (s *SQLStore) Replace(ctx context.Context, r *models.Result) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM results WHERE id = ?", r.ID).Scan(&exists)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return errors.Wrap(err, "look up result")
		}

		_, err = tx.ExecContext(ctx, `UPDATE results SET name = ?, father_name = ?, roll_number = ?,
			examination = ?, college = ?, stream = ?, medium = ?, passing_year = ?, session = ?,
			total_marks = ?, updated_at = ? WHERE id = ?`,
			r.Name, r.FatherName, r.RollNumber, r.Examination, r.College, r.Stream, r.Medium,
			r.PassingYear, r.Session, r.TotalMarks, r.UpdatedAt, r.ID)
		if err != nil {
			return translate(err, "update result")
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM result_subjects WHERE result_id = ?", r.ID); err != nil {
			return errors.Wrap(err, "clear subjects")
		}
		return insertSubjects(ctx, tx, r)
	})
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM results WHERE id = ?", id)
		if err != nil {
			return errors.Wrap(err, "delete result")
		}
		n, err := res.RowsAffected()
		if err != nil {
			return errors.Wrap(err, "delete result")
		}
		if n == 0 {
			return ErrNotFound
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM result_subjects WHERE result_id = ?", id); err != nil {
			return errors.Wrap(err, "delete subjects")
		}
		return nil
	})
}

func insertSubjects(ctx context.Context, tx *sql.Tx, r *models.Result) error {
	if len(r.Subjects) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO result_subjects (result_id, position, code, name, marks, grade) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return errors.Wrap(err, "prepare subject insert")
	}
	defer stmt.Close()

	for i, sub := range r.Subjects {
		if _, err := stmt.ExecContext(ctx, r.ID, i, sub.Code, sub.Name, sub.Marks, sub.Grade); err != nil {
			return errors.Wrapf(err, "insert subject %d", i)
		}
	}
	return nil
}

func (s *SQLStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "commit transaction")
}

// translate maps a unique-index violation from either driver to ErrDuplicateKey.
func translate(err error, op string) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return ErrDuplicateKey
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return ErrDuplicateKey
	}
	return errors.Wrap(err, op)
}
