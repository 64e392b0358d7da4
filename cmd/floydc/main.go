/*
floydc is a console utility for the floyd parser-generator runtime.

Usage is

	floydc compile <grammar-file>
	floydc parse [-s <rule>] [-d <datafile>] <grammar-file> <input-file>
	floydc cache warm <grammar-file>...
	floydc cache clear

compile checks a grammar for syntax and analysis errors without
running it against any input. parse compiles a grammar and runs one
input file through it, printing the resulting value as JSON. cache
warm pre-populates the on-disk compiled-grammar cache so a later
compile or parse of the same grammar source skips analysis entirely;
cache clear removes it.
*/
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ava12/floyd/cache"
)

var cacheDir string

func main () {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "floydc",
	Short: "Compile and run floyd grammars",
	Long:  "floydc compiles floyd grammar files and runs input text through them.",
}

func init () {
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "compiled-grammar cache directory (disabled if empty)")
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(cacheCmd)
}

// openCache returns the cache rooted at cacheDir, or nil if the flag
// was not set — every subcommand treats a nil *cache.Cache as "no
// caching".
func openCache () (*cache.Cache, error) {
	if cacheDir == "" {
		return nil, nil
	}
	return cache.Open(cacheDir)
}
