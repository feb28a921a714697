package main

import (
	"github.com/spf13/cobra"
)

func main() {
	var root = &cobra.Command{Use: "voyago"}

	root.AddCommand(serveCMD(), planCMD())
	_ = root.Execute()
}
