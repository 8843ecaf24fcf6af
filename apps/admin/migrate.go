package main

import (
	"github.com/trezcool/masomo-portal/storage/database"
)

var migrateFunc = database.Migrate // mockable

func (cli *commandLine) migrate(args []string) error {
	db, err := cli.openDB()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return migrateFunc(db, args[0], args[1:]...)
}
