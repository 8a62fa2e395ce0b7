package main

import (
	cmd "github.com/kerbaras/comicripper/cmd/comicripper"
)

func main() {
	cmd.Execute()
}
