package workflow

import (
	"errors"
	"fmt"
	"testing"

	mysqlDriver "github.com/go-sql-driver/mysql"
)

func TestIsDuplicateKeyErr(t *testing.T) {
	dup := &mysqlDriver.MySQLError{Number: 1062, Message: "Duplicate entry"}
	if !isDuplicateKeyErr(dup) {
		t.Fatal("expected 1062 to be a duplicate key error")
	}
	if !isDuplicateKeyErr(fmt.Errorf("insert failed: %w", dup)) {
		t.Fatal("expected wrapped 1062 to be a duplicate key error")
	}
	if isDuplicateKeyErr(&mysqlDriver.MySQLError{Number: 1213}) {
		t.Fatal("deadlock must not count as duplicate key")
	}
	if isDuplicateKeyErr(errors.New("duplicate entry")) {
		t.Fatal("plain errors must not count as duplicate key")
	}
	if isDuplicateKeyErr(nil) {
		t.Fatal("nil must not count as duplicate key")
	}
}
