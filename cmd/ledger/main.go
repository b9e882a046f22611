package main

import (
	"context"

	"ledger/internal/cli"
	"ledger/internal/log"
)

var version = "dev"

func main() {
	ctx, cancel := cli.SignalContext(context.Background(), log.FromContext(context.Background()))

	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)
	if closeErr := a.close(); closeErr != nil && err == nil {
		err = closeErr
	}
	cancel()

	if err != nil {
		cli.Fatal(err)
	}
}
