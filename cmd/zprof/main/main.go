package main

import (
	"os"

	"github.com/arthur-debert/zprof/cmd/zprof"
)

func main() {
	os.Exit(zprof.Execute())
}
