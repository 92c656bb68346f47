package main

import "github.com/x402-tools/paywallet/internal/cmd"

func main() {
	cmd.Execute()
}
