package main

import "backoffice-service/internal/cmd"

func main() {
	cmd.Execute()
}
