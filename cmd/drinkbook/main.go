// Command drinkbook runs the drink catalog client: a local HTTP API for a UI
// shell plus a few catalog commands for the terminal.
package main

func main() {
	Execute()
}
