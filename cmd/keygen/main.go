// Command keygen derives a master encryption key from a passphrase and a
// salt and prints it as hex, ready for the master_key_hex config field.
// Deriving the key instead of generating it randomly lets operators rebuild
// the same key from the passphrase on another host.
package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/streamsforlab/mediastore/internal/cryptox"
)

func main() {

	reader := bufio.NewReader(os.Stdin)
	fmt.Println("Enter salt")

	salt, err := reader.ReadString('\n')
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	salt = strings.TrimSpace(salt)
	if salt == "" {
		fmt.Println("salt must not be empty")
		return
	}

	fmt.Println("Enter passphrase")
	passphrase, err := term.ReadPassword(int(os.Stdin.Fd()))

	if err != nil {
		fmt.Println(err.Error())
		return
	}

	if len(passphrase) == 0 {
		fmt.Println("passphrase must not be empty")
		return
	}

	key := cryptox.DeriveMasterKey(passphrase, []byte(salt))

	fmt.Println(hex.EncodeToString(key))

}
