package main

import (
	"github.com/yolokit/yolokit/cmd/yolokit/cmd"
)

func main() {
	cmd.Execute()
}
