// Command pulsenet simulates pulse propagation through module networks.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/roach88/pulsenet/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return cli.GetExitCode(err)
	}
	return cli.ExitSuccess
}
