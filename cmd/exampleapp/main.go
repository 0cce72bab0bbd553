// Package main is a simple example app to write logs and watch the active
// file switch as time passes.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golift.io/datorr"
)

// ///////////////////////////////////////////////////////////////////////// //

/* Run this with a per-minute pattern and watch a new file appear each minute
   while the oldest files disappear. */

// Usage, one process:
//   go run ./cmd/exampleapp
//
// Usage, several processes sharing the pattern:
//   go run ./cmd/exampleapp concurrent & go run ./cmd/exampleapp concurrent

const (
	logPattern      = "/tmp/myfolder/myfile-%Y-%m-%d_%H-%M.log"
	keepFiles       = 5
	timeBetweenLogs = 500 * time.Millisecond
)

// ///////////////////////////////////////////////////////////////////////// //

func main() {
	var (
		writer *datorr.Logger
		err    error
	)

	config := &datorr.Config{
		Pattern:     logPattern,
		BackupCount: keepFiles,
		Delay:       isArg("delay"),
		Logf: func(msg string, v ...any) {
			fmt.Printf("[cleanup] "+msg+"\n", v...)
		},
	}

	if isArg("concurrent") {
		writer, err = datorr.NewConcurrent(config)
	} else {
		writer, err = datorr.New(config)
	}

	if err != nil {
		panic(err)
	}
	defer writer.Close()

	makeLogs(writer)
}

// Write fake logs!
func makeLogs(writer *datorr.Logger) {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(writer),
		zap.InfoLevel,
	)
	logger := zap.New(core)

	ticker := time.NewTicker(timeBetweenLogs)
	for range ticker.C {
		fmt.Print(".")
		logger.Info("tick", zap.Int("pid", os.Getpid()), zap.Time("when", time.Now()))
	}
}

// seems easy, but flag is better.
func isArg(arg string) bool {
	for _, a := range os.Args {
		if strings.EqualFold(a, arg) {
			return true
		}
	}

	return false
}
