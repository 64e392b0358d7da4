package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ava12/floyd"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the compiled-grammar cache",
}

var cacheWarmCmd = &cobra.Command{
	Use:   "warm <grammar-file>...",
	Short: "Compile each grammar file and store it in the cache",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCacheWarm,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the cache directory",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init () {
	cacheCmd.AddCommand(cacheWarmCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func runCacheWarm (cmd *cobra.Command, args []string) error {
	if cacheDir == "" {
		return fmt.Errorf("cache warm requires --cache-dir")
	}
	c, err := openCache()
	if err != nil {
		return err
	}

	for _, path := range args {
		source, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if _, err := floyd.Compile(string(source), floyd.WithCache(c)); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: cached\n", path)
	}
	return nil
}

func runCacheClear (cmd *cobra.Command, args []string) error {
	if cacheDir == "" {
		return fmt.Errorf("cache clear requires --cache-dir")
	}
	if err := os.RemoveAll(cacheDir); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: cleared\n", cacheDir)
	return nil
}
