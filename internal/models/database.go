package models

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	go_sqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var DB *gorm.DB

type SPContext string

const (
	DBContextURL         SPContext = "staffplan-url"
	DBContextUser        SPContext = "staffplan-user"
	DBContextPermissions SPContext = "staffplan-permissions"
)

// Connect opens the SQLite database and configures the connection pool.
func Connect(dsn string) error {
	config := &gorm.Config{
		Logger: &logger{
			Logger: log.Logger,
		},
	}

	// The first connection runs the migration with foreign keys disabled.
	// sqlite implements column changes by copying the table to a temporary
	// one and recreating it, which trips foreign key checks.
	db, err := gorm.Open(sqlite.Open(dsn), config)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	err = migrate(db)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}
	sqlDB.Close()

	// Reconnect with foreign keys enabled for normal operation
	dsn = fmt.Sprintf("%s?_pragma=foreign_keys(1)", dsn)
	db, err = gorm.Open(sqlite.Open(dsn), config)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err = db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}

	// Get new connections after one hour
	sqlDB.SetConnMaxLifetime(time.Hour)

	// A single connection prevents SQLITE_BUSY errors from concurrent
	// writes
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	// Query callbacks
	err = db.Callback().Query().After("*").Register("staffplan:after_query", queryCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Query().After("*").Register("staffplan:after_query_general", generalCallback)
	if err != nil {
		return err
	}

	// Create callbacks
	err = db.Callback().Create().After("*").Register("staffplan:after_create", createUpdateCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Create().After("*").Register("staffplan:after_create_general", generalCallback)
	if err != nil {
		return err
	}

	// Update callbacks
	err = db.Callback().Update().After("*").Register("staffplan:after_update", createUpdateCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Update().After("*").Register("staffplan:after_update_general", generalCallback)
	if err != nil {
		return err
	}

	// Delete callbacks
	err = db.Callback().Delete().After("*").Register("staffplan:after_delete", deleteCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Delete().After("*").Register("staffplan:after_delete_general", generalCallback)
	if err != nil {
		return err
	}

	// Set the exported variable
	DB = db

	return nil
}

// queryCallback replaces the generic "no record" error with a more user
// friendly one
func queryCallback(db *gorm.DB) {
	if errors.Is(db.Error, gorm.ErrRecordNotFound) {
		// Derive the resource name from the table name by undoing the
		// snake case and the pluralization, e.g. "leave_types" becomes
		// "leave type"
		name := strings.ReplaceAll(db.Statement.Table, "_", " ")
		name = regexp.MustCompile("ies$").ReplaceAllString(name, "y")
		name = strings.TrimRight(name, "s")

		db.Error = fmt.Errorf("%w %s matching your query", ErrResourceNotFound, name)
	}
}

// createUpdateCallback inspects errors returned by the database for create
// and update calls and replaces them with user friendly ones
func createUpdateCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	// Email addresses identify users
	if strings.Contains(db.Error.Error(), "UNIQUE constraint failed: users.email") {
		db.Error = ErrUserEmailNotUnique
	}

	// Role names must be unique
	if strings.Contains(db.Error.Error(), "UNIQUE constraint failed: roles.name") {
		db.Error = ErrRoleNameNotUnique
	}

	// Permission codes must be unique
	if strings.Contains(db.Error.Error(), "UNIQUE constraint failed: permissions.code") {
		db.Error = ErrPermissionCodeNotUnique
	}

	// Leave type names must be unique
	if strings.Contains(db.Error.Error(), "UNIQUE constraint failed: leave_types.name") {
		db.Error = ErrLeaveTypeNameNotUnique
	}

	// One allocation per user, leave type and year
	if strings.Contains(db.Error.Error(), "UNIQUE constraint failed: leave_allocations.user_id, leave_allocations.leave_type_id, leave_allocations.year") {
		db.Error = ErrLeaveAllocationNotUnique
	}

	// One schedule per user and date
	if strings.Contains(db.Error.Error(), "UNIQUE constraint failed: schedules.user_id, schedules.date") {
		db.Error = ErrScheduleNotUnique
	}

	// A date can only be restricted once
	if strings.Contains(db.Error.Error(), "UNIQUE constraint failed: restricted_days.date") {
		db.Error = ErrRestrictedDayNotUnique
	}

	// One unavailability per user and date
	if strings.Contains(db.Error.Error(), "UNIQUE constraint failed: unavailabilities.user_id, unavailabilities.date") {
		db.Error = ErrUnavailabilityNotUnique
	}

	// One requirement per month
	if strings.Contains(db.Error.Error(), "UNIQUE constraint failed: monthly_requirements.year, monthly_requirements.month") {
		db.Error = ErrMonthlyRequirementNotUnique
	}
}

// deleteCallback maps foreign key violations on deletes to an error that
// tells users why the resource cannot be deleted
func deleteCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	if strings.Contains(db.Error.Error(), "FOREIGN KEY constraint failed") {
		db.Error = ErrReferenced
	}
}

// generalCallback catches errors from the database layer itself. Users
// cannot do anything about these, so the error is logged for the server
// admins and replaced with a general message.
func generalCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	// "sql: database is closed" is a hard-coded string in database/sql,
	// there is no error variable to match against
	if db.Error.Error() == "sql: database is closed" || reflect.TypeOf(db.Error) == reflect.TypeOf(&go_sqlite.Error{}) {
		log.Error().Msgf("%T: %v", db.Error, db.Error.Error())
		db.Error = ErrGeneral
	}
}

// migrate migrates all models to the schema defined in the code.
func migrate(db *gorm.DB) (err error) {
	err = db.AutoMigrate(
		User{}, Role{}, Permission{},
		LeaveType{}, LeaveAllocation{}, LeaveRequest{},
		Schedule{}, RestrictedDay{}, Unavailability{}, MonthlyRequirement{},
		Notification{}, Task{}, BoardPost{}, AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("error during DB migration: %w", err)
	}

	return nil
}
