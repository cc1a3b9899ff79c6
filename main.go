package main

import (
	_ "time/tzdata"

	"github.com/chrisdamba/webdiner/cmd"
)

func main() {
	cmd.Execute()
}
