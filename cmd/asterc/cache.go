package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/0xSMW/aster/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the content-addressed build cache.",
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the cache root and whether it's enabled.",
	Run: func(cmd *cobra.Command, args []string) {
		c := cache.FromEnv(os.Getenv)
		state := red("disabled")
		if c.Enabled {
			state = green("enabled")
		}
		fmt.Printf("root:  %s\n", c.Root)
		fmt.Printf("state: %s\n", state)
		entries, err := os.ReadDir(c.Root)
		if err != nil {
			fmt.Printf("entries: 0\n")
			return
		}
		fmt.Printf("entries: %d\n", len(entries))
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every entry from the cache root.",
	Run: func(cmd *cobra.Command, args []string) {
		c := cache.FromEnv(os.Getenv)
		if err := os.RemoveAll(c.Root); err != nil {
			fatalf("clearing cache at %s: %v", c.Root, err)
		}
		fmt.Printf("%s cleared %s\n", green("✓"), c.Root)
	},
}

func init() {
	cacheCmd.AddCommand(cacheInfoCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
