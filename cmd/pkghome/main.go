package main

import "github.com/mvp-joe/pkghome/internal/cli"

func main() {
	cli.Execute()
}
