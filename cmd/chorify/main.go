package main

import (
	"github.com/chorify/chorify/internal/cli"
	"github.com/chorify/chorify/internal/common/logtrace"
)

func init() {
	logtrace.InitLogger(logtrace.DefaultLevel, true)
}

func main() {
	cli.Execute()
}
