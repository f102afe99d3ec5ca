// main.go
package main

import (
	"github.com/amagee/webdriver-components/cmd"
)

func main() {
	cmd.Execute()
}
