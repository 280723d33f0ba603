package main

import "KneeHeal/client/kneeheal-cli/cmd"

func main() {
	cmd.Execute()
}
