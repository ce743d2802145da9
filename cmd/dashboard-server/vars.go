package main

import (
	"flag"
)

var (
	debug    = false
	confFile = ""
)

func init() {
	flag.BoolVar(&debug, "debug", debug, "Enable debug logs.")
	flag.StringVar(&confFile, "config", confFile, "Configuration file, defaults and environment only when empty.")
}
