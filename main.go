package main

import (
	"github.com/callsight/callprof/pkg/cmd"
)

func main() {
	cmd.Execute()
}
