package main

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()

	app.Name = "avdtpctl"
	app.Usage = "A CLI tool for AVDTP signaling"
	app.Version = "0.0.1"
	app.Action = cli.ShowAppHelp
	app.Flags = []cli.Flag{flgTransport, flgAddr, flgPSM, flgTimeout, flgMTU}

	app.Commands = []cli.Command{
		{
			Name:    "discover",
			Aliases: []string{"d"},
			Usage:   "List the stream endpoints of a remote device",
			Action:  cmdDiscover,
			Flags:   []cli.Flag{flgCaps},
		},
		{
			Name:    "serve",
			Aliases: []string{"sv"},
			Usage:   "Serve an audio sink and source until interrupted",
			Action:  cmdServe,
			Flags:   []cli.Flag{flgListen},
		},
		{
			Name:    "cycle",
			Aliases: []string{"c"},
			Usage:   "Configure, open, start, suspend and close a remote stream",
			Action:  cmdCycle,
			Flags:   []cli.Flag{flgLocal, flgRemote},
		},
	}

	if err := app.Run(os.Args); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}
