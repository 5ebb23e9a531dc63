package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
)

// Version is set at build time via -ldflags
var Version = "dev"

// AppOptions holds the parsed command line.
type AppOptions struct {
	ConfigFile  string
	RequestFile string
	OutputFile  string
	HttpPort    int
	MqttMode    bool
	HttpMode    bool
}

// Runner is the part of App driven by the command line.
type Runner interface {
	ApplyOptions(opts AppOptions)
	RunOnce() error
	RunService()
}

func main() {
	if err := run(os.Args[1:], os.Stdout, NewApp()); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Fatal(err)
	}
}

func run(args []string, out io.Writer, app Runner) error {
	fs := flag.NewFlagSet("headreg", flag.ContinueOnError)
	fs.SetOutput(out)

	var opts AppOptions
	fs.StringVar(&opts.ConfigFile, "config", "config.yaml", "Path to configuration file")
	fs.StringVar(&opts.RequestFile, "request", "", "Run one alignment attempt from a JSON request file and exit")
	fs.StringVar(&opts.OutputFile, "output", "", "Write the attempt result to this file instead of stdout")
	fs.BoolVar(&opts.MqttMode, "mqtt", false, "Run MQTT service mode: consume requests, publish results")
	fs.BoolVar(&opts.HttpMode, "http", false, "Enable HTTP server for submitting requests and reading results")
	fs.IntVar(&opts.HttpPort, "http-port", 8080, "HTTP server port")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fmt.Fprintf(out, "headreg version: %s\n", Version)
	app.ApplyOptions(opts)

	if opts.RequestFile != "" {
		return app.RunOnce()
	}

	if opts.MqttMode || opts.HttpMode {
		app.RunService()
		return nil
	}

	fmt.Fprintln(out, "Nothing to do.")
	fmt.Fprintln(out, "Use --request=FILE to locate landmarks for one MRI/head mesh pair")
	fmt.Fprintln(out, "Use --mqtt to consume requests from the configured MQTT topic")
	fmt.Fprintln(out, "Use --http to serve POST /landmarks")
	fmt.Fprintln(out, "\nConfiguration:")
	fmt.Fprintln(out, "  config.yaml - MQTT settings, processing and locator windows (optional)")
	return nil
}
