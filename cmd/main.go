package main

import (
	cmd "github.com/darwin256/comick-uploader/cmd/uploader"
)

func main() {
	cmd.Execute()
}
