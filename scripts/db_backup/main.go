package main

import (
	"flag"
	"fmt"
	"io"
	"os"
)

func main() {
	src := flag.String("db", "devstore.db", "Database file to back up")
	flag.Parse()

	dst := *src + ".bak"

	srcFile, err := os.Open(*src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Backup error: %v\n", err)
		os.Exit(1)
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Backup error: %v\n", err)
		os.Exit(1)
	}
	defer dstFile.Close()

	_, err = io.Copy(dstFile, srcFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Backup error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Database backup completed.")
}
