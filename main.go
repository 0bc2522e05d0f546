// The main package for the catalog-crawler executable.
package main

import (
	"github.com/mercalytics/catalog-crawler/cmd"
)

func main() {
	cmd.Execute()
}
