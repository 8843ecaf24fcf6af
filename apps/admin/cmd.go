package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/masomo-portal/core/payment"
	"github.com/trezcool/masomo-portal/core/receipt"
	"github.com/trezcool/masomo-portal/services/backend"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type (
	authenticator interface {
		Login(ctx context.Context, identifier, password string) (backend.LoginResult, error)
	}

	invoiceSource interface {
		Invoice(ctx context.Context, id int) (payment.Invoice, error)
	}

	commandLine struct {
		openDB   func() (*sql.DB, error)
		auth     authenticator
		invoices func(token string) invoiceSource
		school   receipt.School
		out      io.Writer
	}
)

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command on the session store (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  receipt -username USERNAME|EMAIL -invoice ID [-out FILE] - write the PDF receipt of an invoice")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	receiptCmd := flag.NewFlagSet("receipt", flag.ContinueOnError)
	receiptCmd.SetOutput(cli.out)
	receiptUname := receiptCmd.String("username", "", "The backend username or email. The password will be prompted next.")
	receiptInvoice := receiptCmd.Int("invoice", 0, "The invoice ID.")
	receiptOut := receiptCmd.String("out", "", "The PDF file to write. Defaults to the receipt file name.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "receipt":
		if err := receiptCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *receiptUname == "" || *receiptInvoice <= 0 {
			receiptCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			receiptCmd.Usage()
			return errHelp
		}
		return cli.writeReceipt(*receiptUname, string(pwd), *receiptInvoice, *receiptOut)
	default:
		cli.printUsage()
		return errHelp
	}
}
