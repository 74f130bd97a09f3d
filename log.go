package gostblind

import (
	logging "github.com/ipfs/go-log"
)

// logger is the package logger. Tune it from the embedding application
// with logging.SetLogLevel("gostblind", "debug").
var logger = logging.Logger("gostblind")
