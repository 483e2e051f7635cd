package main

import (
	"github.com/ValentinKolb/dSync/cmd"
)

func main() {
	cmd.Execute()
}
