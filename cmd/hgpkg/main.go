package main

import "github.com/goplus/hgpkg/cmd/hgpkg/internal"

func main() {
	internal.Execute()
}
