package main

import "github.com/panscan/panscan/cmd/panscan"

func main() { panscan.Execute() }
