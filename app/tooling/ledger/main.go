package main

import "github.com/ardanlabs/ledger/app/tooling/ledger/cmd"

func main() {
	cmd.Execute()
}
