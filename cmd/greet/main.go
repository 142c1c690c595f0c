// Command greet is the repository's hello-world companion: it prompts
// for a name and prints a greeting.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Greet formats the greeting for one user.
func Greet(name string) string {
	return fmt.Sprintf("Hello world to you, %s!", name)
}

func main() {
	fmt.Print("Enter your name: ")
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	fmt.Println(Greet(strings.TrimSpace(line)))
}
