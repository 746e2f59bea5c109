package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

var CLI struct {
	Version kong.VersionFlag
	Tz      string `help:"IANA zone used for relative dates and zone-less times." env:"DEFAULT_TIMEZONE"`
	Backend string `help:"Calendar backend override (google, mongo, memory)."`

	Book     BookCmd     `cmd:"" help:"Book an appointment from a natural-language request."`
	Resolve  ResolveCmd  `cmd:"" help:"Show how relative dates in a request are resolved."`
	NextSlot NextSlotCmd `cmd:"" name:"next-slot" help:"Find the first free slot at or after a start time."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("apptctl"),
		kong.Description("Book calendar appointments from plain-language requests"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	appCtx, err := newContext(CLI.Tz, CLI.Backend)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
