package main

import (
	"flag"
	"strings"
)

var config struct {
	Verbose bool
}

func init() {
	flag.BoolVar(&config.Verbose, "verbose", false, "verbose mode")
}

const encSuffix = ".gost2"

func encryptName(in string) string {
	return in + encSuffix
}

func decryptName(in string) string {
	if strings.HasSuffix(in, encSuffix) {
		return strings.TrimSuffix(in, encSuffix)
	}
	return in + ".dec"
}
