package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/core/receipt"
	"github.com/trezcool/masomo-portal/services/backend"
	"github.com/trezcool/masomo-portal/storage/database"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	conf := core.NewConfig()

	client, err := backend.NewClient(conf.Backend.BaseURL, conf.Backend.Timeout)
	errAndDie(err)

	school := receipt.NewSchool(conf.School)
	if school.Logo, err = receipt.LoadLogo(conf.School.LogoPath); err != nil {
		logger.Printf("school logo ignored: %v", err)
	}

	// start CLI
	cli := commandLine{
		openDB: func() (*sql.DB, error) {
			ctx := context.Background()
			if err := database.CreateIfNotExist(ctx, conf); err != nil {
				return nil, err
			}
			db, err := database.Open(ctx, conf)
			if err != nil {
				return nil, err
			}
			return db.DB, nil
		},
		auth:     client,
		invoices: func(token string) invoiceSource { return client.WithToken(token) },
		school:   school,
		out:      os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
