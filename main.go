package main

import "github.com/KaramelBytes/aqicast-cli/cmd"

func main() {
	cmd.Execute()
}
