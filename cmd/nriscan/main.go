// Package main provides the entry point for the nriscan CLI.
//
// nriscan crawls the NRI NOW news site through a real Chrome browser,
// extracts structured article data, and writes reports in several formats.
//
// Usage:
//
//	nriscan crawl
//	nriscan crawl --search <keyword>
//	nriscan posts --max-posts 50
//
// See --help for all available options.
package main

// main is the entry point for nriscan.
func main() {
	Execute()
}
