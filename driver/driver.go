package driver

import (
	"database/sql"
	"embed"
	"path"
	"time"

	"results-portal/config"

	"github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Each driver has its own migration directory under migrations/, named
// after the driver.
//
//go:embed migrations
var migrations embed.FS

// ConnectDB opens and pings a SQL database for the given driver name.
func ConnectDB(driverName, dsn string) (*sql.DB, error) {
	if driverName == config.DriverMySQL {
		var err error
		if dsn, err = mysqlDSN(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", driverName)
	}

	switch driverName {
	case config.DriverSQLite:
		// SQLite serialises writers; one connection avoids "database is locked".
		db.SetMaxOpenConns(1)
	default:
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "ping %s database", driverName)
	}
	return db, nil
}

// mysqlDSN makes sure DATETIME columns scan into time.Time.
func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", errors.Wrap(err, "parse mysql dsn")
	}
	cfg.ParseTime = true
	if cfg.Loc == nil {
		cfg.Loc = time.UTC
	}
	return cfg.FormatDSN(), nil
}

// Migrate applies every pending schema migration.
func Migrate(db *sql.DB, driverName string, log logrus.FieldLogger) error {
	if driverName != config.DriverMySQL && driverName != config.DriverSQLite {
		return errors.Errorf("migrations not supported for driver %q", driverName)
	}
	src, err := iofs.New(migrations, path.Join("migrations", driverName))
	if err != nil {
		return errors.Wrap(err, "open migrations")
	}

	var m *migrate.Migrate
	switch driverName {
	case config.DriverMySQL:
		target, err := migratemysql.WithInstance(db, &migratemysql.Config{})
		if err != nil {
			return errors.Wrap(err, "mysql migration driver")
		}
		m, err = migrate.NewWithInstance("iofs", src, "mysql", target)
		if err != nil {
			return errors.Wrap(err, "init migrations")
		}
	case config.DriverSQLite:
		target, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
		if err != nil {
			return errors.Wrap(err, "sqlite migration driver")
		}
		m, err = migrate.NewWithInstance("iofs", src, "sqlite3", target)
		if err != nil {
			return errors.Wrap(err, "init migrations")
		}
	default:
		return errors.Errorf("migrations not supported for driver %q", driverName)
	}

	// m.Close would also close db, which the caller still owns.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "apply migrations")
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return errors.Wrap(err, "read migration version")
	}
	log.WithFields(logrus.Fields{"driver": driverName, "version": version, "dirty": dirty}).Info("database schema up to date")
	return nil
}
