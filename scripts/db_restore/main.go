package main

import (
	"flag"
	"fmt"
	"io"
	"os"
)

func main() {
	dst := flag.String("db", "devstore.db", "Database file to restore")
	flag.Parse()

	src := *dst + ".bak"

	srcFile, err := os.Open(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Restore error: %v\n", err)
		os.Exit(1)
	}
	defer srcFile.Close()

	dstFile, err := os.Create(*dst)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Restore error: %v\n", err)
		os.Exit(1)
	}
	defer dstFile.Close()

	_, err = io.Copy(dstFile, srcFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Restore error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Database restore completed.")
}
