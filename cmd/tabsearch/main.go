// Command tabsearch loads tabular files, searches them and exports the
// matches as a workbook, without the web UI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/pisearch/internal/core"
	"github.com/fatih/color"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		red := color.New(color.FgRed, color.Bold)
		if core.IsUserFacing(err) {
			red.Fprintln(os.Stderr, "Error:", core.FormatUserError(err))
		} else {
			red.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}
