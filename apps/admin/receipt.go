package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-portal/core/receipt"
)

var nowFunc = time.Now // mockable

// writeReceipt logs in as username, fetches the invoice and writes its receipt to out.
func (cli *commandLine) writeReceipt(username, password string, invoiceID int, out string) error {
	ctx := context.Background()

	res, err := cli.auth.Login(ctx, username, password)
	if err != nil {
		return errors.Wrap(err, "logging in")
	}
	inv, err := cli.invoices(res.Token).Invoice(ctx, invoiceID)
	if err != nil {
		return errors.Wrap(err, "loading invoice")
	}
	inv.Normalize()

	r, err := receipt.ForInvoice(cli.school, inv, nowFunc())
	if err != nil {
		return err
	}
	if out == "" {
		out = r.Filename()
	}

	f, err := os.Create(out)
	if err != nil {
		return errors.Wrap(err, "creating receipt file")
	}
	if err = receipt.PDF(f, r); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return errors.Wrap(err, "writing receipt file")
	}
	fmt.Fprintf(cli.out, "%s written to %s\n", r.Title(), out)
	return nil
}
