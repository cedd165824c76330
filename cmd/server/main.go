// Package main is the entry point for the carrest API server.
package main

func main() {
	Execute()
}
