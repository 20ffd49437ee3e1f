package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"

	"github.com/liftbridge-io/mtpcrack/cracker"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	// Set once config and flags have resolved the input file.
	var inputFile string

	app := cli.NewApp()
	app.Name = "mtpcrack"
	app.Usage = "Recover plaintexts encrypted with a reused XOR key stream"
	app.Version = cracker.Version
	app.Writer = stdout
	app.ErrWriter = stderr
	app.Flags = getFlags()
	app.Action = func(c *cli.Context) error {
		config, err := cracker.NewConfig(c.String("config"))
		if err != nil {
			return err
		}
		if err := applyFlags(c, config); err != nil {
			return err
		}
		inputFile = config.InputFile
		return cracker.New(config).Run(stdout, stderr)
	}

	if err := app.Run(args); err != nil {
		if inputFile == "" {
			fmt.Fprintf(stderr, "Cannot crack --- %v\n", err)
		} else {
			fmt.Fprintf(stderr, "Cannot crack %s --- %v\n", inputFile, err)
		}
		return 1
	}
	return 0
}

// applyFlags overrides config with the flags given on the command line.
func applyFlags(c *cli.Context, config *cracker.Config) error {
	if c.IsSet("filename") {
		config.InputFile = c.String("filename")
	}
	if c.IsSet("level") {
		level, err := cracker.GetLogLevel(c.String("level"))
		if err != nil {
			return err
		}
		config.LogLevel = level
	}
	if c.IsSet("threshold") {
		config.Threshold = c.Float64("threshold")
	}
	if c.IsSet("anchor") {
		anchor, err := cracker.ParseAnchor(c.String("anchor"))
		if err != nil {
			return err
		}
		config.Anchor = anchor
	}
	if c.IsSet("workers") {
		config.Workers = c.Int("workers")
	}
	if c.IsSet("stats") {
		config.Stats = true
	}
	if c.IsSet("save-key") {
		config.SaveKeyFile = c.String("save-key")
	}
	if c.IsSet("load-key") {
		config.LoadKeyFile = c.String("load-key")
	}
	if c.IsSet("key") {
		config.Key = c.String("key")
	}
	config.Mode = selectMode(c.Bool("getkey"), config.Key, config.LoadKeyFile)
	return nil
}

// selectMode picks the output mode. A known key always wins over cracking.
func selectMode(getKey bool, key, loadKey string) cracker.Mode {
	switch {
	case key != "" || loadKey != "":
		return cracker.ModeDecrypt
	case getKey:
		return cracker.ModeKey
	default:
		return cracker.ModePlaintext
	}
}

func getFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "filename, f",
			Usage: "read hex-encoded ciphertexts from `FILE`",
			Value: cracker.DefaultInputFile,
		},
		cli.BoolFlag{
			Name:  "getkey, K",
			Usage: "print the cracked key instead of the cracked plaintexts",
		},
		cli.StringFlag{
			Name:  "key, k",
			Usage: "decrypt the ciphertexts with the hex `KEY`",
		},
		cli.StringFlag{
			Name:  "config, c",
			Usage: "load configuration from `FILE`",
		},
		cli.StringFlag{
			Name:  "level, l",
			Usage: "logging level [debug|info|warn|error]",
		},
		cli.Float64Flag{
			Name:  "threshold",
			Usage: "share of messages that must agree before a key byte is accepted",
			Value: 0.8,
		},
		cli.StringFlag{
			Name:  "anchor",
			Usage: "hex `BYTE` assumed to be the most frequent plaintext byte",
			Value: "20",
		},
		cli.IntFlag{
			Name:  "workers",
			Usage: "analyse key columns concurrently when greater than 1",
			Value: 1,
		},
		cli.BoolFlag{
			Name:  "stats",
			Usage: "print column statistics to stderr",
		},
		cli.StringFlag{
			Name:  "save-key",
			Usage: "seal the cracked key into `FILE` (needs LOCAL_MASTER_KEY)",
		},
		cli.StringFlag{
			Name:  "load-key",
			Usage: "decrypt with a key sealed by --save-key",
		},
	}
}
