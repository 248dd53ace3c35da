package cli

import (
	"flag"
)

type Options struct {
	ChannelBufferSize int
	NumWorkers        int
	PrintHelp         bool
}

var opts = Options{}
var defaultBufSize = 20
var defaultWorkers = 3

var EnvMessage = `This requires the following environment vars:

QRP_CONFIG_DIR - Path to the directory containing the .env settings file.

QRP_SERVICES_CONFIG - Name of the configuration to load. For example:
    test - Loads .env.test from QRP_CONFIG_DIR
    demo - Loads .env.demo from QRP_CONFIG_DIR
`

func Init() {
	flag.IntVar(&opts.ChannelBufferSize, "bufsize", defaultBufSize, "Max in-flight NSQ messages")
	flag.IntVar(&opts.NumWorkers, "workers", defaultWorkers, "Number of go routines to handle main processing work")
	flag.BoolVar(&opts.PrintHelp, "help", false, "Print help message")
}

func ParseOpts() Options {
	flag.Parse()
	return opts
}

func PrintDefaults() {
	flag.PrintDefaults()
}
