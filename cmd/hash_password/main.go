package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/pageza/craveq/backend/internal/service"
)

// Prints a bcrypt hash for ADMIN_PASSWORD_HASH. The password comes from
// -password or, when that is empty, the first line of stdin.
func main() {
	password := flag.String("password", "", "Admin password to hash (read from stdin when empty)")
	flag.Parse()

	pw := *password
	if pw == "" {
		var err error
		if pw, err = readPassword(os.Stdin); err != nil {
			log.Fatalf("Failed to read password: %v", err)
		}
	}

	hash, err := service.HashPassword(pw)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	fmt.Println(hash)
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("password is empty")
	}
	return line, nil
}
